package services

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	Name           *string
	ProfilePicture *string
}

type UserService struct {
	db     *database.DB
	hasher *PasswordHasher
}

func NewUserService(db *database.DB, hasher *PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

// GetCurrentUser returns the user and their current workspace, which is nil
// when none is selected.
func (s *UserService) GetCurrentUser(ctx context.Context, id uuid.UUID) (*models.User, *models.Workspace, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user.CurrentWorkspaceID == nil {
		return user, nil, nil
	}

	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1
	`, *user.CurrentWorkspaceID))
	if err != nil {
		if isNoRows(err) {
			return user, nil, nil
		}
		return nil, nil, apperr.Internal("failed to load current workspace", err)
	}
	return user, workspace, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	var set updateSet
	if in.Name != nil {
		name, err := requiredText("Name", in.Name)
		if err != nil {
			return nil, err
		}
		set.add("name", name)
	}
	if in.ProfilePicture != nil {
		set.add("profile_picture", optionalText(in.ProfilePicture))
	}
	if set.empty() {
		return s.GetByID(ctx, id)
	}

	clause, next := set.clause()
	user, err := scanUser(s.db.Pool.QueryRow(ctx,
		`UPDATE users SET `+clause+` WHERE id = `+placeholder(next)+` RETURNING `+userColumns,
		append(set.args, id)...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to update user", err)
	}
	return user, nil
}

// ChangePassword replaces the password of a local account after checking the
// current one. OAuth-only accounts have no password to change.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return apperr.BadRequest("This account does not use password login")
	}
	if !s.hasher.Verify(current, *user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect").WithCode(apperr.CodeAuthInvalid)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, hash, id); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}

func (s *UserService) SetCurrentWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.User, error) {
	ok, err := isMember(ctx, s.db.Pool, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Unauthorized("You are not a member of this workspace")
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET current_workspace_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, workspaceID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("failed to switch workspace", err)
	}
	return user, nil
}
