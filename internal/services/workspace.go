package services

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const DefaultWorkspaceName = "My Workspace"

type CreateWorkspaceInput struct {
	Name        string
	Description *string
}

type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

type WorkspaceService struct {
	db  *database.DB
	now func() time.Time
}

func NewWorkspaceService(db *database.DB) *WorkspaceService {
	return &WorkspaceService{db: db, now: time.Now}
}

func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, in CreateWorkspaceInput) (*models.Workspace, error) {
	var workspace *models.Workspace
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		workspace, err = createWorkspaceTx(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to create workspace")
	}
	return workspace, nil
}

// createWorkspaceTx inserts a workspace owned by userID, makes the owner a
// member and points the owner's current workspace at it.
func createWorkspaceTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in CreateWorkspaceInput) (*models.Workspace, error) {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if !exists {
		return nil, apperr.NotFound("User not found")
	}

	ownerRole, err := findRoleByName(ctx, tx, permissions.RoleOwner)
	if err != nil {
		return nil, err
	}

	workspace, err := insertWorkspace(ctx, tx, userID, in)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO members (user_id, workspace_id, role_id)
		VALUES ($1, $2, $3)
	`, userID, workspace.ID, ownerRole.ID); err != nil {
		return nil, apperr.Internal("failed to add owner as member", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET current_workspace_id = $1, updated_at = NOW()
		WHERE id = $2
	`, workspace.ID, userID); err != nil {
		return nil, apperr.Internal("failed to set current workspace", err)
	}

	return workspace, nil
}

// insertWorkspace retries with a fresh invite code when the generated one is
// already taken. ON CONFLICT keeps the surrounding transaction usable.
func insertWorkspace(ctx context.Context, tx pgx.Tx, userID uuid.UUID, in CreateWorkspaceInput) (*models.Workspace, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		workspace, err := scanWorkspace(tx.QueryRow(ctx, `
			INSERT INTO workspaces (name, description, owner_id, invite_code)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (invite_code) DO NOTHING
			RETURNING `+workspaceColumns,
			in.Name, optionalText(in.Description), userID, newInviteCode()))
		if err == nil {
			return workspace, nil
		}
		if !isNoRows(err) {
			return nil, apperr.Internal("failed to insert workspace", err)
		}
	}
	return nil, apperr.Internal("failed to insert workspace", errors.New("invite code collisions exhausted retries"))
}

func (s *WorkspaceService) GetByID(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, error) {
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx, `
		SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1
	`, workspaceID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Workspace not found")
		}
		return nil, apperr.Internal("failed to load workspace", err)
	}
	return workspace, nil
}

func (s *WorkspaceService) GetWithMembers(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, []models.Member, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	members, err := listMembers(ctx, s.db.Pool, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	return workspace, members, nil
}

// GetUserWorkspaces lists every workspace the user belongs to, oldest
// membership first.
func (s *WorkspaceService) GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.WorkspaceMembership, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT w.id, w.name, w.description, w.owner_id, w.invite_code, w.created_at, w.updated_at, r.name
		FROM members m
		JOIN workspaces w ON w.id = m.workspace_id
		JOIN roles r ON r.id = m.role_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at
	`, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list workspaces", err)
	}
	defer rows.Close()

	var out []models.WorkspaceMembership
	for rows.Next() {
		var wm models.WorkspaceMembership
		w := &wm.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.OwnerID, &w.InviteCode, &w.CreatedAt, &w.UpdatedAt, &wm.RoleName); err != nil {
			return nil, apperr.Internal("failed to scan workspace", err)
		}
		out = append(out, wm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list workspaces", err)
	}
	return out, nil
}

// GetMembers returns the workspace members with user and role populated,
// plus every role that can be assigned.
func (s *WorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.Member, []models.Role, error) {
	members, err := listMembers(ctx, s.db.Pool, workspaceID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY created_at`)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list roles", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, nil, apperr.Internal("failed to scan role", err)
		}
		roles = append(roles, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperr.Internal("failed to list roles", err)
	}
	return members, roles, nil
}

func listMembers(ctx context.Context, q database.Querier, workspaceID uuid.UUID) ([]models.Member, error) {
	rows, err := q.Query(ctx, `
		SELECT m.id, m.user_id, m.workspace_id, m.role_id, m.joined_at,
		       r.id, r.name, r.permissions, r.created_at, r.updated_at,
		       u.id, u.name, u.email, u.profile_picture
		FROM members m
		JOIN roles r ON r.id = m.role_id
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.joined_at
	`, workspaceID)
	if err != nil {
		return nil, apperr.Internal("failed to list members", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var r models.Role
		var u models.User
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.JoinedAt,
			&r.ID, &r.Name, &r.Permissions, &r.CreatedAt, &r.UpdatedAt,
			&u.ID, &u.Name, &u.Email, &u.ProfilePicture,
		); err != nil {
			return nil, apperr.Internal("failed to scan member", err)
		}
		m.Role = &r
		m.User = &u
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list members", err)
	}
	return members, nil
}

func (s *WorkspaceService) Analytics(ctx context.Context, workspaceID uuid.UUID) (*models.TaskAnalytics, error) {
	return taskAnalytics(ctx, s.db.Pool, "workspace_id", workspaceID, s.now())
}

// taskAnalytics counts tasks matching column = id in one aggregation.
// column is always a compile-time constant.
func taskAnalytics(ctx context.Context, q database.Querier, column string, id uuid.UUID, now time.Time) (*models.TaskAnalytics, error) {
	var a models.TaskAnalytics
	err := q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE due_date < $2 AND status <> $3),
		       COUNT(*) FILTER (WHERE status = $3)
		FROM tasks WHERE `+column+` = $1
	`, id, now, models.TaskStatusDone).Scan(&a.TotalTasks, &a.OverdueTasks, &a.CompletedTasks)
	if err != nil {
		return nil, apperr.Internal("failed to compute analytics", err)
	}
	return &a, nil
}

func (s *WorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, in UpdateWorkspaceInput) (*models.Workspace, error) {
	var set updateSet
	if in.Name != nil {
		name, err := requiredText("Name", in.Name)
		if err != nil {
			return nil, err
		}
		set.add("name", name)
	}
	if in.Description != nil {
		set.add("description", optionalText(in.Description))
	}
	if set.empty() {
		return s.GetByID(ctx, workspaceID)
	}

	clause, next := set.clause()
	args := append(set.args, workspaceID)
	workspace, err := scanWorkspace(s.db.Pool.QueryRow(ctx,
		`UPDATE workspaces SET `+clause+` WHERE id = `+placeholder(next)+` RETURNING `+workspaceColumns,
		args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Workspace not found")
		}
		return nil, apperr.Internal("failed to update workspace", err)
	}
	return workspace, nil
}

// ChangeMemberRole assigns roleID to the member. The owner's role is fixed
// and OWNER cannot be granted.
func (s *WorkspaceService) ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID uuid.UUID) (*models.Member, error) {
	workspace, err := s.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	role, err := findRoleByID(ctx, s.db.Pool, roleID)
	if err != nil {
		return nil, err
	}
	if role.Name == permissions.RoleOwner {
		return nil, apperr.BadRequest("The OWNER role cannot be assigned")
	}
	if workspace.IsOwner(memberUserID) {
		return nil, apperr.BadRequest("The workspace owner's role cannot be changed")
	}

	var m models.Member
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE members SET role_id = $1
		WHERE user_id = $2 AND workspace_id = $3
		RETURNING id, user_id, workspace_id, role_id, joined_at
	`, role.ID, memberUserID, workspaceID).Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.JoinedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Member not found in the workspace")
		}
		return nil, apperr.Internal("failed to change member role", err)
	}
	m.Role = role
	return &m, nil
}

// Delete removes the workspace with its projects, tasks and memberships.
// It returns the requester's current workspace after the deletion, which is
// nil when they have no memberships left.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, userID uuid.UUID) (*uuid.UUID, error) {
	var current *uuid.UUID
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT owner_id FROM workspaces WHERE id = $1 FOR UPDATE`, workspaceID).Scan(&ownerID)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("Workspace not found")
			}
			return apperr.Internal("failed to load workspace", err)
		}
		if ownerID != userID {
			return apperr.Unauthorized("You are not authorized to delete this workspace")
		}

		err = tx.QueryRow(ctx, `SELECT current_workspace_id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&current)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("User not found")
			}
			return apperr.Internal("failed to load user", err)
		}

		for _, stmt := range []string{
			`DELETE FROM projects WHERE workspace_id = $1`,
			`DELETE FROM tasks WHERE workspace_id = $1`,
			`DELETE FROM members WHERE workspace_id = $1`,
		} {
			if _, err := tx.Exec(ctx, stmt, workspaceID); err != nil {
				return apperr.Internal("failed to delete workspace contents", err)
			}
		}

		if current != nil && *current == workspaceID {
			var next uuid.UUID
			err := tx.QueryRow(ctx, `
				SELECT workspace_id FROM members
				WHERE user_id = $1
				ORDER BY joined_at
				LIMIT 1
			`, userID).Scan(&next)
			switch {
			case isNoRows(err):
				current = nil
			case err != nil:
				return apperr.Internal("failed to pick next workspace", err)
			default:
				current = &next
			}

			if _, err := tx.Exec(ctx, `
				UPDATE users SET current_workspace_id = $1, updated_at = NOW()
				WHERE id = $2
			`, current, userID); err != nil {
				return apperr.Internal("failed to update current workspace", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, workspaceID); err != nil {
			return apperr.Internal("failed to delete workspace", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to delete workspace")
	}
	return current, nil
}
