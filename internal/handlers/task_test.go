package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/testutil"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTaskTest(t *testing.T) (*testEnv, *testutil.MockTaskService, *testutil.HTTPTestClient) {
	t.Helper()
	env := newTestEnv(t)
	tasks := new(testutil.MockTaskService)
	h := NewTaskHandler(tasks, env.members, env.table)
	client := env.client(t,
		route{http.MethodPost, "/workspaces/:workspaceId/projects/:projectId/tasks", h.Create},
		route{http.MethodGet, "/workspaces/:workspaceId/projects/:projectId/tasks/:taskId", h.Get},
		route{http.MethodPatch, "/workspaces/:workspaceId/projects/:projectId/tasks/:taskId", h.Update},
		route{http.MethodGet, "/workspaces/:workspaceId/tasks", h.List},
		route{http.MethodDelete, "/workspaces/:workspaceId/tasks/:taskId", h.Delete},
	)
	return env, tasks, client
}

func testTask(workspaceID, projectID, creatorID uuid.UUID) *models.Task {
	now := time.Now()
	return &models.Task{
		ID: uuid.New(), TaskCode: "task-1a2b3c4d", Title: "Write docs",
		Priority: models.TaskPriorityMedium, Status: models.TaskStatusTodo,
		CreatedBy: creatorID, WorkspaceID: workspaceID, ProjectID: projectID,
		CreatedAt: now, UpdatedAt: now,
	}
}

func projectTasksPath(workspaceID, projectID uuid.UUID) string {
	return "/workspaces/" + workspaceID.String() + "/projects/" + projectID.String() + "/tasks"
}

func TestTaskHandler_Create(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, projectID, assignee := uuid.New(), uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)
	task := testTask(workspaceID, projectID, env.userID)
	task.AssignedTo = &assignee

	due := "2026-03-01"
	tasks.On("Create", mock.Anything, workspaceID, projectID, env.userID, mock.MatchedBy(func(in services.CreateTaskInput) bool {
		return in.Title == "Write docs" &&
			in.Priority == models.TaskPriorityHigh &&
			in.AssignedTo != nil && *in.AssignedTo == assignee &&
			in.DueDate != nil && in.DueDate.Format(time.DateOnly) == due
	})).Return(task, nil)

	rec := client.POST(projectTasksPath(workspaceID, projectID), dto.CreateTaskRequest{
		Title: "Write docs", Priority: models.TaskPriorityHigh, AssignedTo: &assignee, DueDate: &due,
	})

	testutil.AssertStatus(t, rec, http.StatusCreated)
	var resp dto.TaskResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Equal(t, "task-1a2b3c4d", resp.TaskCode)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing title", dto.CreateTaskRequest{Title: "  "}},
		{"bad due date", `{"title":"Write docs","due_date":"next week"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, tasks, client := setupTaskTest(t)
			workspaceID, projectID := uuid.New(), uuid.New()
			env.withRole(workspaceID, permissions.RoleMember)

			rec := client.POST(projectTasksPath(workspaceID, projectID), tt.body)

			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_Update_ClearsAssigneeAndDueDate(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, projectID := uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)
	task := testTask(workspaceID, projectID, env.userID)
	status := models.TaskStatusDone
	tasks.On("Update", mock.Anything, workspaceID, projectID, task.ID, services.UpdateTaskInput{
		Status: &status, ClearAssignee: true, ClearDueDate: true,
	}).Return(task, nil)

	rec := client.PATCH(projectTasksPath(workspaceID, projectID)+"/"+task.ID.String(),
		`{"status":"DONE","assigned_to":null,"due_date":null}`)

	testutil.AssertStatus(t, rec, http.StatusOK)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Update_OmittedFieldsUntouched(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, projectID, assignee := uuid.New(), uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)
	task := testTask(workspaceID, projectID, env.userID)
	tasks.On("Update", mock.Anything, workspaceID, projectID, task.ID, services.UpdateTaskInput{
		AssignedTo: &assignee,
	}).Return(task, nil)

	rec := client.PATCH(projectTasksPath(workspaceID, projectID)+"/"+task.ID.String(),
		`{"assigned_to":"`+assignee.String()+`"}`)

	testutil.AssertStatus(t, rec, http.StatusOK)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Get(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, projectID := uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)
	task := testTask(workspaceID, projectID, env.userID)
	task.Assignee = &models.User{ID: uuid.New(), Name: "Bo"}
	task.AssignedTo = &task.Assignee.ID
	tasks.On("Get", mock.Anything, workspaceID, projectID, task.ID).Return(task, nil)

	rec := client.GET(projectTasksPath(workspaceID, projectID) + "/" + task.ID.String())

	testutil.AssertStatus(t, rec, http.StatusOK)
	var resp dto.TaskResponse
	testutil.ParseJSON(t, rec, &resp)
	require.NotNil(t, resp.Assignee)
	assert.Equal(t, "Bo", resp.Assignee.Name)
}

func TestTaskHandler_List_ParsesFilters(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, projectID, a1, a2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)
	page := services.Pagination{PageSize: 20, PageNumber: 1}

	tasks.On("List", mock.Anything, workspaceID, mock.MatchedBy(func(f services.TaskFilter) bool {
		return f.ProjectID != nil && *f.ProjectID == projectID &&
			assert.ObjectsAreEqual([]string{models.TaskStatusTodo, models.TaskStatusInProgress}, f.Status) &&
			assert.ObjectsAreEqual([]string{models.TaskPriorityHigh}, f.Priority) &&
			assert.ObjectsAreEqual([]uuid.UUID{a1, a2}, f.AssignedTo) &&
			f.Keyword == "docs" &&
			f.DueDate != nil && f.DueDate.Format(time.DateOnly) == "2026-03-01"
	}), page).Return([]models.Task{}, page.Info(0), nil)

	rec := client.GET("/workspaces/" + workspaceID.String() + "/tasks" +
		"?projectId=" + projectID.String() +
		"&status=TODO,IN_PROGRESS&priority=HIGH" +
		"&assignedTo=" + a1.String() + "," + a2.String() +
		"&keyword=%20docs%20&dueDate=2026-03-01&pageSize=20")

	testutil.AssertStatus(t, rec, http.StatusOK)
	var resp dto.TaskListResponse
	testutil.ParseJSON(t, rec, &resp)
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, 20, resp.Pagination.PageSize)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_List_InvalidFilters(t *testing.T) {
	queries := map[string]string{
		"status":     "?status=TODO,SOMEDAY",
		"priority":   "?priority=URGENT",
		"assignedTo": "?assignedTo=bob",
		"projectId":  "?projectId=123",
		"dueDate":    "?dueDate=tomorrow",
	}

	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			env, tasks, client := setupTaskTest(t)
			workspaceID := uuid.New()
			env.withRole(workspaceID, permissions.RoleMember)

			rec := client.GET("/workspaces/" + workspaceID.String() + "/tasks" + query)

			testutil.AssertStatus(t, rec, http.StatusBadRequest)
			tasks.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, taskID := uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleAdmin)
	tasks.On("Delete", mock.Anything, workspaceID, taskID).Return(nil)

	rec := client.DELETE("/workspaces/" + workspaceID.String() + "/tasks/" + taskID.String())

	testutil.AssertStatus(t, rec, http.StatusOK)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_Delete_MemberDenied(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, taskID := uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleMember)

	rec := client.DELETE("/workspaces/" + workspaceID.String() + "/tasks/" + taskID.String())

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
	tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Delete_NotFound(t *testing.T) {
	env, tasks, client := setupTaskTest(t)
	workspaceID, taskID := uuid.New(), uuid.New()
	env.withRole(workspaceID, permissions.RoleOwner)
	tasks.On("Delete", mock.Anything, workspaceID, taskID).
		Return(apperr.NotFound("Task not found or does not belong to the specified workspace"))

	rec := client.DELETE("/workspaces/" + workspaceID.String() + "/tasks/" + taskID.String())

	testutil.AssertStatus(t, rec, http.StatusNotFound)
}
