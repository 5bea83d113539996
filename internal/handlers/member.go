package handlers

import (
	"net/http"
	"strings"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type MemberHandler struct {
	members MemberServiceInterface
	table   *permissions.Table
}

func NewMemberHandler(members MemberServiceInterface, table *permissions.Table) *MemberHandler {
	return &MemberHandler{members: members, table: table}
}

func (h *MemberHandler) Join(c *drift.Context) {
	code := strings.TrimSpace(c.Param("inviteCode"))
	if code == "" {
		middleware.RespondError(c, apperr.BadRequest("Invite code is required"))
		return
	}

	workspaceID, role, err := h.members.JoinWorkspaceByInvite(c.Request.Context(), middleware.GetUserID(c), code)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.JoinWorkspaceResponse{
		Message:     "Successfully joined the workspace",
		WorkspaceID: workspaceID,
		Role:        role,
	})
}

func (h *MemberHandler) Remove(c *drift.Context) {
	workspaceID, ok := uuidParam(c, "workspaceId")
	if !ok {
		return
	}
	memberUserID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	if !guard(c, h.members, h.table, workspaceID, permissions.RemoveMember) {
		return
	}

	if err := h.members.RemoveMember(c.Request.Context(), workspaceID, memberUserID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member removed successfully"})
}
