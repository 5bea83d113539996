package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *string    `json:"due_date"`
}

func (r CreateTaskRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if tooLong(title, maxTextLength) {
		return errors.New("title must be under 255 characters")
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if _, err := ParseDate(*r.DueDate); err != nil {
			return errors.New("due_date must be a valid date (YYYY-MM-DD)")
		}
	}
	return nil
}

// UpdateTaskRequest distinguishes an omitted assignee or due date from an
// explicit null, which clears it.
type UpdateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Priority    *string             `json:"priority"`
	Status      *string             `json:"status"`
	AssignedTo  Optional[uuid.UUID] `json:"assigned_to"`
	DueDate     Optional[string]    `json:"due_date"`
}

func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.Title != nil && tooLong(*r.Title, maxTextLength) {
		return errors.New("title must be under 255 characters")
	}
	if r.DueDate.Set && !r.DueDate.Null && r.DueDate.Value != "" {
		if _, err := ParseDate(r.DueDate.Value); err != nil {
			return errors.New("due_date must be a valid date (YYYY-MM-DD)")
		}
	}
	return nil
}

type TaskProjectResponse struct {
	ID    uuid.UUID `json:"id"`
	Emoji string    `json:"emoji"`
	Name  string    `json:"name"`
}

type TaskResponse struct {
	ID          uuid.UUID            `json:"id"`
	TaskCode    string               `json:"task_code"`
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	Priority    string               `json:"priority"`
	Status      string               `json:"status"`
	AssignedTo  *uuid.UUID           `json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID            `json:"created_by"`
	WorkspaceID uuid.UUID            `json:"workspace_id"`
	ProjectID   uuid.UUID            `json:"project_id"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Assignee    *MemberUserResponse  `json:"assignee,omitempty"`
	Project     *TaskProjectResponse `json:"project,omitempty"`
}

type TaskListResponse struct {
	Tasks      []TaskResponse     `json:"tasks"`
	Pagination PaginationResponse `json:"pagination"`
}
