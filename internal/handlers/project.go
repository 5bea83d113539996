package handlers

import (
	"net/http"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projects ProjectServiceInterface
	members  MemberServiceInterface
	table    *permissions.Table
}

func NewProjectHandler(projects ProjectServiceInterface, members MemberServiceInterface, table *permissions.Table) *ProjectHandler {
	return &ProjectHandler{projects: projects, members: members, table: table}
}

func (h *ProjectHandler) List(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	projects, page, err := h.projects.List(c.Request.Context(), workspaceID, pagination(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	resp := dto.ProjectListResponse{
		Projects:   make([]dto.ProjectResponse, 0, len(projects)),
		Pagination: toPaginationResponse(page),
	}
	for i := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(&projects[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) Create(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.CreateProject) {
		return
	}
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), workspaceID, middleware.GetUserID(c), services.CreateProjectInput{
		Name:        req.Name,
		Emoji:       req.Emoji,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) Get(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), workspaceID, projectID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Update(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.EditProject) {
		return
	}
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Update(c.Request.Context(), workspaceID, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Emoji:       req.Emoji,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Delete(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.DeleteProject) {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), workspaceID, projectID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project deleted successfully"})
}

func (h *ProjectHandler) Analytics(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	projectID, ok := uuidParam(c, "projectId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	analytics, err := h.projects.Analytics(c.Request.Context(), workspaceID, projectID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toAnalyticsResponse(analytics))
}
