package handlers

import (
	"net/http"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type WorkspaceHandler struct {
	workspaces WorkspaceServiceInterface
	members    MemberServiceInterface
	table      *permissions.Table
}

func NewWorkspaceHandler(workspaces WorkspaceServiceInterface, members MemberServiceInterface, table *permissions.Table) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, members: members, table: table}
}

func (h *WorkspaceHandler) List(c *drift.Context) {
	memberships, err := h.workspaces.GetUserWorkspaces(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	resp := make([]dto.WorkspaceWithRoleResponse, 0, len(memberships))
	for i := range memberships {
		resp = append(resp, dto.WorkspaceWithRoleResponse{
			WorkspaceResponse: toWorkspaceResponse(&memberships[i].Workspace),
			Role:              memberships[i].RoleName,
		})
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) Create(c *drift.Context) {
	var req dto.CreateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	workspace, err := h.workspaces.Create(c.Request.Context(), middleware.GetUserID(c), services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) Get(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	workspace, members, err := h.workspaces.GetWithMembers(c.Request.Context(), workspaceID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.WorkspaceDetailResponse{
		WorkspaceResponse: toWorkspaceResponse(workspace),
		Members:           toMemberResponses(members),
	})
}

func (h *WorkspaceHandler) Update(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.EditWorkspace) {
		return
	}
	var req dto.UpdateWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	workspace, err := h.workspaces.Update(c.Request.Context(), workspaceID, services.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) Delete(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.DeleteWorkspace) {
		return
	}

	current, err := h.workspaces.Delete(c.Request.Context(), workspaceID, middleware.GetUserID(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.DeleteWorkspaceResponse{
		Message:            "Workspace deleted successfully",
		CurrentWorkspaceID: current,
	})
}

func (h *WorkspaceHandler) GetMembers(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	members, roles, err := h.workspaces.GetMembers(c.Request.Context(), workspaceID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	roleResp := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		roleResp = append(roleResp, toRoleResponse(&roles[i]))
	}
	_ = c.JSON(http.StatusOK, dto.MembersResponse{
		Members: toMemberResponses(members),
		Roles:   roleResp,
	})
}

func (h *WorkspaceHandler) ChangeMemberRole(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	memberUserID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ChangeMemberRole) {
		return
	}
	var req dto.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.workspaces.ChangeMemberRole(c.Request.Context(), workspaceID, memberUserID, req.RoleID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *WorkspaceHandler) Analytics(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.ViewOnly) {
		return
	}

	analytics, err := h.workspaces.Analytics(c.Request.Context(), workspaceID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toAnalyticsResponse(analytics))
}
