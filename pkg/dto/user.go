package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	ProfilePicture     *string    `json:"profile_picture,omitempty"`
	IsActive           bool       `json:"is_active"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CurrentWorkspaceID *uuid.UUID `json:"current_workspace_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CurrentUserResponse struct {
	UserResponse
	CurrentWorkspace *WorkspaceResponse `json:"current_workspace"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

func (r UpdateProfileRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.ProfilePicture != nil && tooLong(*r.ProfilePicture, maxURLLength) {
		return errors.New("profile_picture must be under 500 characters")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return errors.New("current password is required")
	}
	return validatePassword(r.NewPassword)
}

type SwitchWorkspaceRequest struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
}

func (r SwitchWorkspaceRequest) Validate() error {
	if r.WorkspaceID == uuid.Nil {
		return errors.New("workspace_id is required")
	}
	return nil
}
