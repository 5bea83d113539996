package handlers

import (
	"net/http"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	users UserServiceInterface
}

func NewUserHandler(users UserServiceInterface) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	user, workspace, err := h.users.GetCurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	resp := dto.CurrentUserResponse{UserResponse: toUserResponse(user)}
	if workspace != nil {
		ws := toWorkspaceResponse(workspace)
		resp.CurrentWorkspace = &ws
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), services.UpdateProfileInput{
		Name:           req.Name,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) ChangePassword(c *drift.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

func (h *UserHandler) SwitchWorkspace(c *drift.Context) {
	var req dto.SwitchWorkspaceRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.SetCurrentWorkspace(c.Request.Context(), middleware.GetUserID(c), req.WorkspaceID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, toUserResponse(user))
}
