package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{
	"id", "task_code", "title", "description", "priority", "status", "assigned_to",
	"created_by", "workspace_id", "project_id", "due_date", "created_at", "updated_at",
}

func setupTaskService(t *testing.T) (*TaskService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTaskService(db), mock
}

type taskFixture struct {
	workspaceID, projectID, taskID, userID uuid.UUID
}

func newTaskFixture() taskFixture {
	return taskFixture{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
}

func (f taskFixture) expectProject(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1 AND workspace_id = \$2`).
		WithArgs(f.projectID, f.workspaceID).
		WillReturnRows(projectRow(f.projectID, f.workspaceID, f.userID, "Roadmap", "📊"))
}

func (f taskFixture) taskRow(title, priority, status string, assignee *uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(taskCols).AddRow(
		f.taskID, "task-1a2b3c4d", title, (*string)(nil), priority, status, assignee,
		f.userID, f.workspaceID, f.projectID, (*time.Time)(nil), now, now,
	)
}

func TestTaskService_Create_AppliesDefaults(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()

	f.expectProject(mock)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(pgxmock.AnyArg(), "Write docs", (*string)(nil), models.TaskPriorityMedium, models.TaskStatusTodo,
			(*uuid.UUID)(nil), f.userID, f.workspaceID, f.projectID, (*time.Time)(nil)).
		WillReturnRows(f.taskRow("Write docs", models.TaskPriorityMedium, models.TaskStatusTodo, nil))

	task, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID, CreateTaskInput{Title: "Write docs"})

	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_RetriesTaskCodeCollision(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()
	args := []any{pgxmock.AnyArg(), "Write docs", (*string)(nil), models.TaskPriorityMedium, models.TaskStatusTodo,
		(*uuid.UUID)(nil), f.userID, f.workspaceID, f.projectID, (*time.Time)(nil)}

	f.expectProject(mock)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(args...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tasks_task_code_key"})
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(args...).
		WillReturnRows(f.taskRow("Write docs", models.TaskPriorityMedium, models.TaskStatusTodo, nil))

	task, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID, CreateTaskInput{Title: "Write docs"})

	require.NoError(t, err)
	assert.Equal(t, f.taskID, task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_GivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()

	f.expectProject(mock)
	for i := 0; i < codeAttempts; i++ {
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(&pgconn.PgError{Code: "23505"})
	}

	_, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID, CreateTaskInput{Title: "Write docs"})

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_AssigneeMustBeMember(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()
	outsider := uuid.New()

	f.expectProject(mock)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members`).
		WithArgs(outsider, f.workspaceID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID,
		CreateTaskInput{Title: "Fix bug", AssignedTo: &outsider})

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_ProjectOutsideWorkspace(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id`).
		WithArgs(f.projectID, f.workspaceID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID, CreateTaskInput{Title: "x"})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_InvalidStatus(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()

	_, err := svc.Create(context.Background(), f.workspaceID, f.projectID, f.userID,
		CreateTaskInput{Title: "x", Status: "ARCHIVED"})

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Update(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()
	status := models.TaskStatusDone

	f.expectProject(mock)
	mock.ExpectQuery(`UPDATE tasks SET status = \$1, assigned_to = \$2, updated_at = NOW\(\) WHERE id = \$3 AND project_id = \$4`).
		WithArgs(models.TaskStatusDone, nil, f.taskID, f.projectID).
		WillReturnRows(f.taskRow("Write docs", models.TaskPriorityMedium, models.TaskStatusDone, nil))

	task, err := svc.Update(context.Background(), f.workspaceID, f.projectID, f.taskID,
		UpdateTaskInput{Status: &status, ClearAssignee: true})

	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, task.Status)
	assert.Nil(t, task.AssignedTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Update_TaskInOtherProject(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()
	title := "Renamed"

	f.expectProject(mock)
	mock.ExpectQuery(`UPDATE tasks SET title = \$1`).
		WithArgs("Renamed", f.taskID, f.projectID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), f.workspaceID, f.projectID, f.taskID, UpdateTaskInput{Title: &title})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskFilter_Where(t *testing.T) {
	workspaceID, projectID, assignee := uuid.New(), uuid.New(), uuid.New()
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	where, args := TaskFilter{
		ProjectID:  &projectID,
		Status:     []string{"TODO", "DONE"},
		Priority:   []string{"HIGH"},
		AssignedTo: []uuid.UUID{assignee},
		Keyword:    "50%_off",
		DueDate:    &due,
	}.where(workspaceID)

	assert.Equal(t,
		"t.workspace_id = $1 AND t.project_id = $2 AND t.status = ANY($3) AND t.priority = ANY($4)"+
			" AND t.assigned_to = ANY($5) AND t.title ILIKE $6 AND t.due_date::date = $7::date",
		where)
	assert.Equal(t, []any{
		workspaceID, projectID, []string{"TODO", "DONE"}, []string{"HIGH"},
		[]uuid.UUID{assignee}, `%50\%\_off%`, due,
	}, args)
}

func TestTaskService_List(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()
	now := time.Now()
	name := "Ana"

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tasks t WHERE t.workspace_id = \$1 AND t.status = ANY\(\$2\)`).
		WithArgs(f.workspaceID, []string{"TODO"}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM tasks t\s+LEFT JOIN users a .+ LIMIT \$3 OFFSET \$4`).
		WithArgs(f.workspaceID, []string{"TODO"}, 10, 0).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, taskCols...),
			"a_id", "a_name", "a_picture", "p_id", "p_emoji", "p_name")).
			AddRow(f.taskID, "task-1a2b3c4d", "Write docs", (*string)(nil), "LOW", "TODO", &f.userID,
				f.userID, f.workspaceID, f.projectID, (*time.Time)(nil), now, now,
				&f.userID, &name, (*string)(nil), f.projectID, "📊", "Roadmap"))

	tasks, info, err := svc.List(context.Background(), f.workspaceID, TaskFilter{Status: []string{"TODO"}}, Pagination{})

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ana", tasks[0].Assignee.Name)
	assert.Equal(t, "Roadmap", tasks[0].Project.Name)
	assert.Equal(t, 1, info.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Get_NotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	f := newTaskFixture()

	f.expectProject(mock)
	mock.ExpectQuery(`FROM tasks t\s+LEFT JOIN users a .+ WHERE t.id = \$1`).
		WithArgs(f.taskID, f.workspaceID, f.projectID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), f.workspaceID, f.projectID, f.taskID)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete(t *testing.T) {
	f := newTaskFixture()

	t.Run("deleted", func(t *testing.T) {
		svc, mock := setupTaskService(t)
		mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND workspace_id = \$2`).
			WithArgs(f.taskID, f.workspaceID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, svc.Delete(context.Background(), f.workspaceID, f.taskID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other workspace", func(t *testing.T) {
		svc, mock := setupTaskService(t)
		mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1 AND workspace_id = \$2`).
			WithArgs(f.taskID, f.workspaceID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := svc.Delete(context.Background(), f.workspaceID, f.taskID)

		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
