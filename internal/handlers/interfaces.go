package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/google/uuid"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) (uuid.UUID, uuid.UUID, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	LoginOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
}

// SessionServiceInterface defines the methods used by handlers from SessionService
type SessionServiceInterface interface {
	TTL() time.Duration
	Create(ctx context.Context, userID uuid.UUID) (string, *services.Session, error)
	Destroy(ctx context.Context, token string) error
	StoreOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetCurrentUser(ctx context.Context, id uuid.UUID) (*models.User, *models.Workspace, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	SetCurrentWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.User, error)
}

// WorkspaceServiceInterface defines the methods used by handlers from WorkspaceService
type WorkspaceServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, in services.CreateWorkspaceInput) (*models.Workspace, error)
	GetWithMembers(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, []models.Member, error)
	GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.WorkspaceMembership, error)
	GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.Member, []models.Role, error)
	Analytics(ctx context.Context, workspaceID uuid.UUID) (*models.TaskAnalytics, error)
	Update(ctx context.Context, workspaceID uuid.UUID, in services.UpdateWorkspaceInput) (*models.Workspace, error)
	ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID uuid.UUID) (*models.Member, error)
	Delete(ctx context.Context, workspaceID, userID uuid.UUID) (*uuid.UUID, error)
}

// MemberServiceInterface defines the methods used by handlers from MemberService
type MemberServiceInterface interface {
	GetMemberRoleInWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (string, error)
	JoinWorkspaceByInvite(ctx context.Context, userID uuid.UUID, inviteCode string) (uuid.UUID, string, error)
	RemoveMember(ctx context.Context, workspaceID, memberUserID uuid.UUID) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, workspaceID, userID uuid.UUID, in services.CreateProjectInput) (*models.Project, error)
	List(ctx context.Context, workspaceID uuid.UUID, page services.Pagination) ([]models.Project, services.PageInfo, error)
	Get(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, workspaceID, projectID uuid.UUID, in services.UpdateProjectInput) (*models.Project, error)
	Analytics(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.TaskAnalytics, error)
	Delete(ctx context.Context, workspaceID, projectID uuid.UUID) error
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, workspaceID, projectID, userID uuid.UUID, in services.CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, workspaceID, projectID, taskID uuid.UUID, in services.UpdateTaskInput) (*models.Task, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter services.TaskFilter, page services.Pagination) ([]models.Task, services.PageInfo, error)
	Get(ctx context.Context, workspaceID, projectID, taskID uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, workspaceID, taskID uuid.UUID) error
}

// Compile-time checks that the concrete services satisfy the handler interfaces
var (
	_ AuthServiceInterface      = (*services.AuthService)(nil)
	_ SessionServiceInterface   = (*services.SessionService)(nil)
	_ UserServiceInterface      = (*services.UserService)(nil)
	_ WorkspaceServiceInterface = (*services.WorkspaceService)(nil)
	_ MemberServiceInterface    = (*services.MemberService)(nil)
	_ ProjectServiceInterface   = (*services.ProjectService)(nil)
	_ TaskServiceInterface      = (*services.TaskService)(nil)
)
