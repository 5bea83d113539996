package handlers

import (
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
)

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		ProfilePicture:     u.ProfilePicture,
		IsActive:           u.IsActive,
		LastLogin:          u.LastLogin,
		CurrentWorkspaceID: u.CurrentWorkspaceID,
		CreatedAt:          u.CreatedAt,
	}
}

func toMemberUser(u *models.User) *dto.MemberUserResponse {
	if u == nil {
		return nil
	}
	return &dto.MemberUserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

func toWorkspaceResponse(w *models.Workspace) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		OwnerID:     w.OwnerID,
		InviteCode:  w.InviteCode,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toRoleResponse(r *models.Role) dto.RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return dto.RoleResponse{ID: r.ID, Name: r.Name, Permissions: perms}
}

func toMemberResponse(m *models.Member) dto.MemberResponse {
	resp := dto.MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		JoinedAt: m.JoinedAt,
		User:     toMemberUser(m.User),
	}
	if m.Role != nil {
		role := toRoleResponse(m.Role)
		resp.Role = &role
	}
	return resp
}

func toMemberResponses(members []models.Member) []dto.MemberResponse {
	out := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out
}

func toAnalyticsResponse(a *models.TaskAnalytics) dto.AnalyticsResponse {
	return dto.AnalyticsResponse{
		TotalTasks:     a.TotalTasks,
		OverdueTasks:   a.OverdueTasks,
		CompletedTasks: a.CompletedTasks,
	}
}

func toProjectResponse(p *models.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Emoji:       p.Emoji,
		Description: p.Description,
		WorkspaceID: p.WorkspaceID,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Creator:     toMemberUser(p.Creator),
	}
}

func toTaskResponse(t *models.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:          t.ID,
		TaskCode:    t.TaskCode,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		WorkspaceID: t.WorkspaceID,
		ProjectID:   t.ProjectID,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Assignee:    toMemberUser(t.Assignee),
	}
	if t.Project != nil {
		resp.Project = &dto.TaskProjectResponse{ID: t.Project.ID, Emoji: t.Project.Emoji, Name: t.Project.Name}
	}
	return resp
}

func toPaginationResponse(p services.PageInfo) dto.PaginationResponse {
	return dto.PaginationResponse{
		TotalCount: p.TotalCount,
		PageSize:   p.PageSize,
		PageNumber: p.PageNumber,
		TotalPages: p.TotalPages,
		Skip:       p.Skip,
	}
}
