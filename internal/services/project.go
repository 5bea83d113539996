package services

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateProjectInput struct {
	Name        string
	Emoji       *string
	Description *string
}

type UpdateProjectInput struct {
	Name        *string
	Emoji       *string
	Description *string
}

type ProjectService struct {
	db  *database.DB
	now func() time.Time
}

func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db, now: time.Now}
}

func emojiOrDefault(e *string) (string, error) {
	if e == nil || strings.TrimSpace(*e) == "" {
		return models.DefaultProjectEmoji, nil
	}
	emoji := strings.TrimSpace(*e)
	if utf8.RuneCountInString(emoji) > maxEmojiLength {
		return "", apperr.BadRequest("Emoji must be at most " + strconv.Itoa(maxEmojiLength) + " characters")
	}
	return emoji, nil
}

func (s *ProjectService) Create(ctx context.Context, workspaceID, userID uuid.UUID, in CreateProjectInput) (*models.Project, error) {
	name, err := requiredText("Name", &in.Name)
	if err != nil {
		return nil, err
	}
	emoji, err := emojiOrDefault(in.Emoji)
	if err != nil {
		return nil, err
	}

	project, err := scanProject(s.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (name, emoji, description, workspace_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		name, emoji, optionalText(in.Description), workspaceID, userID))
	if err != nil {
		return nil, apperr.Internal("failed to create project", err)
	}
	return project, nil
}

// List returns one page of the workspace's projects, newest first, with the
// creator populated.
func (s *ProjectService) List(ctx context.Context, workspaceID uuid.UUID, page Pagination) ([]models.Project, PageInfo, error) {
	page = page.Normalize()

	var total int
	if err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE workspace_id = $1
	`, workspaceID).Scan(&total); err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to count projects", err)
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.name, p.emoji, p.description, p.workspace_id, p.created_by, p.created_at, p.updated_at,
		       u.id, u.name, u.profile_picture
		FROM projects p
		JOIN users u ON u.id = p.created_by
		WHERE p.workspace_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, workspaceID, page.PageSize, page.Skip())
	if err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to list projects", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		var u models.User
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Emoji, &p.Description, &p.WorkspaceID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
			&u.ID, &u.Name, &u.ProfilePicture,
		); err != nil {
			return nil, PageInfo{}, apperr.Internal("failed to scan project", err)
		}
		p.Creator = &u
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to list projects", err)
	}

	return projects, page.Info(total), nil
}

func (s *ProjectService) Get(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.Project, error) {
	return findProject(ctx, s.db.Pool, workspaceID, projectID)
}

func findProject(ctx context.Context, q database.Querier, workspaceID, projectID uuid.UUID) (*models.Project, error) {
	project, err := scanProject(q.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1 AND workspace_id = $2
	`, projectID, workspaceID))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Project not found or does not belong to this workspace")
		}
		return nil, apperr.Internal("failed to load project", err)
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, workspaceID, projectID uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	var set updateSet
	if in.Name != nil {
		name, err := requiredText("Name", in.Name)
		if err != nil {
			return nil, err
		}
		set.add("name", name)
	}
	if in.Emoji != nil {
		emoji, err := emojiOrDefault(in.Emoji)
		if err != nil {
			return nil, err
		}
		set.add("emoji", emoji)
	}
	if in.Description != nil {
		set.add("description", optionalText(in.Description))
	}
	if set.empty() {
		return s.Get(ctx, workspaceID, projectID)
	}

	clause, next := set.clause()
	args := append(set.args, projectID, workspaceID)
	project, err := scanProject(s.db.Pool.QueryRow(ctx,
		`UPDATE projects SET `+clause+
			` WHERE id = `+placeholder(next)+` AND workspace_id = `+placeholder(next+1)+
			` RETURNING `+projectColumns,
		args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Project not found or does not belong to this workspace")
		}
		return nil, apperr.Internal("failed to update project", err)
	}
	return project, nil
}

func (s *ProjectService) Analytics(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.TaskAnalytics, error) {
	if _, err := s.Get(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}
	return taskAnalytics(ctx, s.db.Pool, "project_id", projectID, s.now())
}

// Delete removes the project and its tasks in one transaction.
func (s *ProjectService) Delete(ctx context.Context, workspaceID, projectID uuid.UUID) error {
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, `
			SELECT id FROM projects WHERE id = $1 AND workspace_id = $2 FOR UPDATE
		`, projectID, workspaceID).Scan(&id)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("Project not found or does not belong to this workspace")
			}
			return apperr.Internal("failed to load project", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID); err != nil {
			return apperr.Internal("failed to delete project", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, projectID); err != nil {
			return apperr.Internal("failed to delete project tasks", err)
		}
		return nil
	})
	return apperr.Wrap(err, "failed to delete project")
}
