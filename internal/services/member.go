package services

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MemberService struct {
	db *database.DB
}

func NewMemberService(db *database.DB) *MemberService {
	return &MemberService{db: db}
}

// GetMemberRoleInWorkspace returns the name of the user's role in the
// workspace. A missing workspace is NotFound; a non-member is Unauthorized.
func (s *MemberService) GetMemberRoleInWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (string, error) {
	var roleName *string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT r.name
		FROM workspaces w
		LEFT JOIN members m ON m.workspace_id = w.id AND m.user_id = $2
		LEFT JOIN roles r ON r.id = m.role_id
		WHERE w.id = $1
	`, workspaceID, userID).Scan(&roleName)
	if err != nil {
		if isNoRows(err) {
			return "", apperr.NotFound("Workspace not found")
		}
		return "", apperr.Internal("failed to resolve member role", err)
	}
	if roleName == nil {
		return "", apperr.Unauthorized("You are not a member of this workspace")
	}
	return *roleName, nil
}

func (s *MemberService) IsMember(ctx context.Context, userID, workspaceID uuid.UUID) (bool, error) {
	return isMember(ctx, s.db.Pool, userID, workspaceID)
}

func isMember(ctx context.Context, q database.Querier, userID, workspaceID uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM members WHERE user_id = $1 AND workspace_id = $2)
	`, userID, workspaceID).Scan(&exists)
	if err != nil {
		return false, apperr.Internal("failed to check membership", err)
	}
	return exists, nil
}

// JoinWorkspaceByInvite adds the user to the workspace behind inviteCode with
// the MEMBER role and returns the workspace id and role name.
func (s *MemberService) JoinWorkspaceByInvite(ctx context.Context, userID uuid.UUID, inviteCode string) (uuid.UUID, string, error) {
	var workspaceID uuid.UUID
	var roleName string
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT id FROM workspaces WHERE invite_code = $1`, inviteCode).Scan(&workspaceID)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("Invalid invite code or workspace not found")
			}
			return apperr.Internal("failed to load workspace", err)
		}

		member, err := isMember(ctx, tx, userID, workspaceID)
		if err != nil {
			return err
		}
		if member {
			return apperr.BadRequest("You are already a member of this workspace")
		}

		role, err := findRoleByName(ctx, tx, permissions.RoleMember)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO members (user_id, workspace_id, role_id)
			VALUES ($1, $2, $3)
		`, userID, workspaceID, role.ID); err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.BadRequest("You are already a member of this workspace")
			}
			return apperr.Internal("failed to add member", err)
		}
		roleName = role.Name
		return nil
	})
	if err != nil {
		return uuid.Nil, "", apperr.Wrap(err, "failed to join workspace")
	}
	return workspaceID, roleName, nil
}

// RemoveMember deletes a non-owner membership and clears the removed user's
// current workspace if it pointed here.
func (s *MemberService) RemoveMember(ctx context.Context, workspaceID, memberUserID uuid.UUID) error {
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT owner_id FROM workspaces WHERE id = $1`, workspaceID).Scan(&ownerID)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("Workspace not found")
			}
			return apperr.Internal("failed to load workspace", err)
		}
		if ownerID == memberUserID {
			return apperr.BadRequest("The workspace owner cannot be removed")
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM members WHERE user_id = $1 AND workspace_id = $2
		`, memberUserID, workspaceID)
		if err != nil {
			return apperr.Internal("failed to remove member", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Member not found in the workspace")
		}

		if _, err := tx.Exec(ctx, `
			UPDATE users SET current_workspace_id = NULL, updated_at = NOW()
			WHERE id = $1 AND current_workspace_id = $2
		`, memberUserID, workspaceID); err != nil {
			return apperr.Internal("failed to clear current workspace", err)
		}
		return nil
	})
	return apperr.Wrap(err, "failed to remove member")
}
