package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (r CreateWorkspaceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if tooLong(r.Name, maxTextLength) {
		return errors.New("name must be under 255 characters")
	}
	return nil
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (r UpdateWorkspaceRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Name != nil && tooLong(*r.Name, maxTextLength) {
		return errors.New("name must be under 255 characters")
	}
	return nil
}

type ChangeRoleRequest struct {
	RoleID uuid.UUID `json:"role_id"`
}

func (r ChangeRoleRequest) Validate() error {
	if r.RoleID == uuid.Nil {
		return errors.New("role_id is required")
	}
	return nil
}

type WorkspaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WorkspaceWithRoleResponse struct {
	WorkspaceResponse
	Role string `json:"role"`
}

type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
}

type MemberUserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
}

type MemberResponse struct {
	ID       uuid.UUID           `json:"id"`
	UserID   uuid.UUID           `json:"user_id"`
	JoinedAt time.Time           `json:"joined_at"`
	Role     *RoleResponse       `json:"role,omitempty"`
	User     *MemberUserResponse `json:"user,omitempty"`
}

type WorkspaceDetailResponse struct {
	WorkspaceResponse
	Members []MemberResponse `json:"members"`
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
	Roles   []RoleResponse   `json:"roles"`
}

type AnalyticsResponse struct {
	TotalTasks     int `json:"total_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

type DeleteWorkspaceResponse struct {
	Message            string     `json:"message"`
	CurrentWorkspaceID *uuid.UUID `json:"current_workspace_id"`
}

type JoinWorkspaceResponse struct {
	Message     string    `json:"message"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Role        string    `json:"role"`
}
