package services

import (
	"errors"
	"strings"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, profile_picture, is_active, last_login, current_workspace_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ProfilePicture,
		&u.IsActive, &u.LastLogin, &u.CurrentWorkspaceID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const workspaceColumns = `id, name, description, owner_id, invite_code, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var w models.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.OwnerID, &w.InviteCode, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const roleColumns = `id, name, permissions, created_at, updated_at`

func scanRole(row pgx.Row) (*models.Role, error) {
	var r models.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Permissions, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

const projectColumns = `id, name, emoji, description, workspace_id, created_by, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Emoji, &p.Description, &p.WorkspaceID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const taskColumns = `id, task_code, title, description, priority, status, assigned_to, created_by, workspace_id, project_id, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.TaskCode, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.AssignedTo, &t.CreatedBy, &t.WorkspaceID, &t.ProjectID, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// prefixColumns qualifies a column list with a table alias.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
