package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Emoji       *string `json:"emoji"`
	Description *string `json:"description"`
}

func (r CreateProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if tooLong(r.Name, maxTextLength) {
		return errors.New("name must be under 255 characters")
	}
	if r.Emoji != nil && tooLong(*r.Emoji, maxEmojiLength) {
		return errors.New("emoji must be under 16 characters")
	}
	return nil
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Emoji       *string `json:"emoji"`
	Description *string `json:"description"`
}

func (r UpdateProjectRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Name != nil && tooLong(*r.Name, maxTextLength) {
		return errors.New("name must be under 255 characters")
	}
	if r.Emoji != nil && tooLong(*r.Emoji, maxEmojiLength) {
		return errors.New("emoji must be under 16 characters")
	}
	return nil
}

type ProjectResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Emoji       string              `json:"emoji"`
	Description *string             `json:"description,omitempty"`
	WorkspaceID uuid.UUID           `json:"workspace_id"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Creator     *MemberUserResponse `json:"creator,omitempty"`
}

type ProjectListResponse struct {
	Projects   []ProjectResponse  `json:"projects"`
	Pagination PaginationResponse `json:"pagination"`
}
