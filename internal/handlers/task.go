package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	tasks   TaskServiceInterface
	members MemberServiceInterface
	table   *permissions.Table
}

func NewTaskHandler(tasks TaskServiceInterface, members MemberServiceInterface, table *permissions.Table) *TaskHandler {
	return &TaskHandler{tasks: tasks, members: members, table: table}
}

func (h *TaskHandler) Create(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.CreateTask) {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, _ := dto.ParseDate(*req.DueDate)
		in.DueDate = &due
	}

	task, err := h.tasks.Create(c.Request.Context(), workspaceID, projectID, middleware.GetUserID(c), in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) Update(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.EditTask) {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Null {
			in.ClearAssignee = true
		} else {
			assignee := req.AssignedTo.Value
			in.AssignedTo = &assignee
		}
	}
	if req.DueDate.Set {
		if req.DueDate.Null || req.DueDate.Value == "" {
			in.ClearDueDate = true
		} else {
			due, _ := dto.ParseDate(req.DueDate.Value)
			in.DueDate = &due
		}
	}

	task, err := h.tasks.Update(c.Request.Context(), workspaceID, projectID, taskID, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Get(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), workspaceID, projectID, taskID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) List(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	filter, err := taskFilter(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	tasks, page, err := h.tasks.List(c.Request.Context(), workspaceID, filter, pagination(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	resp := dto.TaskListResponse{
		Tasks:      make([]dto.TaskResponse, 0, len(tasks)),
		Pagination: toPaginationResponse(page),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) Delete(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.DeleteTask) {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), workspaceID, taskID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// taskFilter reads the list filters from the query string. Multi-valued
// filters are comma separated.
func taskFilter(c *drift.Context) (services.TaskFilter, error) {
	var f services.TaskFilter

	if v := c.QueryParam("projectId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, apperr.BadRequest("Invalid projectId")
		}
		f.ProjectID = &id
	}

	for _, s := range splitList(c.QueryParam("status")) {
		if !models.IsValidTaskStatus(s) {
			return f, apperr.BadRequest("Invalid task status: " + s)
		}
		f.Status = append(f.Status, s)
	}
	for _, p := range splitList(c.QueryParam("priority")) {
		if !models.IsValidTaskPriority(p) {
			return f, apperr.BadRequest("Invalid task priority: " + p)
		}
		f.Priority = append(f.Priority, p)
	}
	for _, a := range splitList(c.QueryParam("assignedTo")) {
		id, err := uuid.Parse(a)
		if err != nil {
			return f, apperr.BadRequest("Invalid assignedTo: " + a)
		}
		f.AssignedTo = append(f.AssignedTo, id)
	}

	f.Keyword = strings.TrimSpace(c.QueryParam("keyword"))

	if v := c.QueryParam("dueDate"); v != "" {
		due, err := dto.ParseDate(v)
		if err != nil {
			return f, apperr.BadRequest("Invalid dueDate")
		}
		due = due.In(time.UTC)
		f.DueDate = &due
	}
	return f, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
