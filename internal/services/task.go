package services

import (
	"context"
	"strings"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
)

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    string
	Status      string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

// UpdateTaskInput leaves nil fields untouched. ClearAssignee and ClearDueDate
// set the column to NULL.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *string
	Status        *string
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     []string
	Priority   []string
	AssignedTo []uuid.UUID
	Keyword    string
	DueDate    *time.Time
}

type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

var taskColumnsQualified = prefixColumns("t", taskColumns)

func validateTaskEnums(priority, status *string) error {
	if priority != nil && !models.IsValidTaskPriority(*priority) {
		return apperr.BadRequest("Invalid task priority: " + *priority)
	}
	if status != nil && !models.IsValidTaskStatus(*status) {
		return apperr.BadRequest("Invalid task status: " + *status)
	}
	return nil
}

func (s *TaskService) ensureAssignable(ctx context.Context, q database.Querier, assignee *uuid.UUID, workspaceID uuid.UUID) error {
	if assignee == nil {
		return nil
	}
	ok, err := isMember(ctx, q, *assignee, workspaceID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.BadRequest("Assigned user is not a member of this workspace")
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, workspaceID, projectID, userID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	title, err := requiredText("Title", &in.Title)
	if err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if in.Status == "" {
		in.Status = models.TaskStatusTodo
	}
	if err := validateTaskEnums(&in.Priority, &in.Status); err != nil {
		return nil, err
	}

	if _, err := findProject(ctx, s.db.Pool, workspaceID, projectID); err != nil {
		return nil, err
	}
	if err := s.ensureAssignable(ctx, s.db.Pool, in.AssignedTo, workspaceID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		var task *models.Task
		task, err = scanTask(s.db.Pool.QueryRow(ctx, `
			INSERT INTO tasks (task_code, title, description, priority, status, assigned_to, created_by, workspace_id, project_id, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+taskColumns,
			newTaskCode(), title, optionalText(in.Description), in.Priority, in.Status,
			in.AssignedTo, userID, workspaceID, projectID, in.DueDate))
		if err == nil {
			return task, nil
		}
		if !database.IsUniqueViolation(err) {
			break
		}
	}
	return nil, apperr.Internal("failed to create task", err)
}

func (s *TaskService) Update(ctx context.Context, workspaceID, projectID, taskID uuid.UUID, in UpdateTaskInput) (*models.Task, error) {
	if err := validateTaskEnums(in.Priority, in.Status); err != nil {
		return nil, err
	}

	var set updateSet
	if in.Title != nil {
		title, err := requiredText("Title", in.Title)
		if err != nil {
			return nil, err
		}
		set.add("title", title)
	}
	if in.Description != nil {
		set.add("description", optionalText(in.Description))
	}
	if in.Priority != nil {
		set.add("priority", *in.Priority)
	}
	if in.Status != nil {
		set.add("status", *in.Status)
	}
	switch {
	case in.ClearAssignee:
		set.add("assigned_to", nil)
	case in.AssignedTo != nil:
		set.add("assigned_to", *in.AssignedTo)
	}
	switch {
	case in.ClearDueDate:
		set.add("due_date", nil)
	case in.DueDate != nil:
		set.add("due_date", *in.DueDate)
	}

	if _, err := findProject(ctx, s.db.Pool, workspaceID, projectID); err != nil {
		return nil, err
	}
	if !in.ClearAssignee {
		if err := s.ensureAssignable(ctx, s.db.Pool, in.AssignedTo, workspaceID); err != nil {
			return nil, err
		}
	}
	if set.empty() {
		return s.Get(ctx, workspaceID, projectID, taskID)
	}

	clause, next := set.clause()
	args := append(set.args, taskID, projectID)
	task, err := scanTask(s.db.Pool.QueryRow(ctx,
		`UPDATE tasks SET `+clause+
			` WHERE id = `+placeholder(next)+` AND project_id = `+placeholder(next+1)+
			` RETURNING `+taskColumns,
		args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Task not found or does not belong to this project")
		}
		return nil, apperr.Internal("failed to update task", err)
	}
	return task, nil
}

// where builds the filter clause for List. $1 is always the workspace id.
func (f TaskFilter) where(workspaceID uuid.UUID) (string, []any) {
	conds := []string{"t.workspace_id = $1"}
	args := []any{workspaceID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", placeholder(len(args))))
	}

	if f.ProjectID != nil {
		add("t.project_id = ?", *f.ProjectID)
	}
	if len(f.Status) > 0 {
		add("t.status = ANY(?)", f.Status)
	}
	if len(f.Priority) > 0 {
		add("t.priority = ANY(?)", f.Priority)
	}
	if len(f.AssignedTo) > 0 {
		add("t.assigned_to = ANY(?)", f.AssignedTo)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		add("t.title ILIKE ?", "%"+escapeLike(kw)+"%")
	}
	if f.DueDate != nil {
		add("t.due_date::date = ?::date", *f.DueDate)
	}
	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of matching tasks, newest first, with the assignee
// and project populated.
func (s *TaskService) List(ctx context.Context, workspaceID uuid.UUID, filter TaskFilter, page Pagination) ([]models.Task, PageInfo, error) {
	page = page.Normalize()
	where, args := filter.where(workspaceID)

	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t WHERE `+where, args...).Scan(&total); err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to count tasks", err)
	}

	limit := len(args) + 1
	args = append(args, page.PageSize, page.Skip())
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+taskColumnsQualified+`,
		       a.id, a.name, a.profile_picture,
		       p.id, p.emoji, p.name
		FROM tasks t
		LEFT JOIN users a ON a.id = t.assigned_to
		JOIN projects p ON p.id = t.project_id
		WHERE `+where+`
		ORDER BY t.created_at DESC
		LIMIT `+placeholder(limit)+` OFFSET `+placeholder(limit+1), args...)
	if err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var assigneeID *uuid.UUID
		var assigneeName, assigneePicture *string
		var p models.Project
		if err := rows.Scan(
			&t.ID, &t.TaskCode, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.AssignedTo, &t.CreatedBy, &t.WorkspaceID, &t.ProjectID, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt,
			&assigneeID, &assigneeName, &assigneePicture,
			&p.ID, &p.Emoji, &p.Name,
		); err != nil {
			return nil, PageInfo{}, apperr.Internal("failed to scan task", err)
		}
		if assigneeID != nil {
			t.Assignee = &models.User{ID: *assigneeID, Name: deref(assigneeName), ProfilePicture: assigneePicture}
		}
		t.Project = &p
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, PageInfo{}, apperr.Internal("failed to list tasks", err)
	}

	return tasks, page.Info(total), nil
}

func (s *TaskService) Get(ctx context.Context, workspaceID, projectID, taskID uuid.UUID) (*models.Task, error) {
	if _, err := findProject(ctx, s.db.Pool, workspaceID, projectID); err != nil {
		return nil, err
	}

	var t models.Task
	var assigneeID *uuid.UUID
	var assigneeName, assigneePicture *string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+taskColumnsQualified+`, a.id, a.name, a.profile_picture
		FROM tasks t
		LEFT JOIN users a ON a.id = t.assigned_to
		WHERE t.id = $1 AND t.workspace_id = $2 AND t.project_id = $3
	`, taskID, workspaceID, projectID).Scan(
		&t.ID, &t.TaskCode, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.AssignedTo, &t.CreatedBy, &t.WorkspaceID, &t.ProjectID, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt,
		&assigneeID, &assigneeName, &assigneePicture,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Internal("failed to load task", err)
	}
	if assigneeID != nil {
		t.Assignee = &models.User{ID: *assigneeID, Name: deref(assigneeName), ProfilePicture: assigneePicture}
	}
	return &t, nil
}

func (s *TaskService) Delete(ctx context.Context, workspaceID, taskID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND workspace_id = $2`, taskID, workspaceID)
	if err != nil {
		return apperr.Internal("failed to delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task not found or does not belong to the specified workspace")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
