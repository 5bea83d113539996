package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (uuid.UUID, uuid.UUID, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uuid.UUID), args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *MockAuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) LoginOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSessionService mocks the SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) TTL() time.Duration {
	return 24 * time.Hour
}

func (m *MockSessionService) Create(ctx context.Context, userID uuid.UUID) (string, *services.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*services.Session), args.Error(2)
}

func (m *MockSessionService) Resolve(ctx context.Context, token string) (*services.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockSessionService) Destroy(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSessionService) StoreOAuthState(ctx context.Context, state string) error {
	return m.Called(ctx, state).Error(0)
}

func (m *MockSessionService) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetCurrentUser(ctx context.Context, id uuid.UUID) (*models.User, *models.Workspace, error) {
	args := m.Called(ctx, id)
	var user *models.User
	var ws *models.Workspace
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	if args.Get(1) != nil {
		ws = args.Get(1).(*models.Workspace)
	}
	return user, ws, args.Error(2)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, in services.UpdateProfileInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	return m.Called(ctx, id, current, next).Error(0)
}

func (m *MockUserService) SetCurrentWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockWorkspaceService mocks the WorkspaceService
type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, userID uuid.UUID, in services.CreateWorkspaceInput) (*models.Workspace, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetWithMembers(ctx context.Context, workspaceID uuid.UUID) (*models.Workspace, []models.Member, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Workspace), args.Get(1).([]models.Member), args.Error(2)
}

func (m *MockWorkspaceService) GetUserWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.WorkspaceMembership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkspaceMembership), args.Error(1)
}

func (m *MockWorkspaceService) GetMembers(ctx context.Context, workspaceID uuid.UUID) ([]models.Member, []models.Role, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Member), args.Get(1).([]models.Role), args.Error(2)
}

func (m *MockWorkspaceService) Analytics(ctx context.Context, workspaceID uuid.UUID) (*models.TaskAnalytics, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskAnalytics), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, workspaceID uuid.UUID, in services.UpdateWorkspaceInput) (*models.Workspace, error) {
	args := m.Called(ctx, workspaceID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) ChangeMemberRole(ctx context.Context, workspaceID, memberUserID, roleID uuid.UUID) (*models.Member, error) {
	args := m.Called(ctx, workspaceID, memberUserID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, workspaceID, userID uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

// MockMemberService mocks the MemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMemberRoleInWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID, workspaceID)
	return args.String(0), args.Error(1)
}

func (m *MockMemberService) JoinWorkspaceByInvite(ctx context.Context, userID uuid.UUID, inviteCode string) (uuid.UUID, string, error) {
	args := m.Called(ctx, userID, inviteCode)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockMemberService) RemoveMember(ctx context.Context, workspaceID, memberUserID uuid.UUID) error {
	return m.Called(ctx, workspaceID, memberUserID).Error(0)
}

// MockProjectService mocks the ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, workspaceID, userID uuid.UUID, in services.CreateProjectInput) (*models.Project, error) {
	args := m.Called(ctx, workspaceID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, workspaceID uuid.UUID, page services.Pagination) ([]models.Project, services.PageInfo, error) {
	args := m.Called(ctx, workspaceID, page)
	if args.Get(0) == nil {
		return nil, services.PageInfo{}, args.Error(2)
	}
	return args.Get(0).([]models.Project), args.Get(1).(services.PageInfo), args.Error(2)
}

func (m *MockProjectService) Get(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, workspaceID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, workspaceID, projectID uuid.UUID, in services.UpdateProjectInput) (*models.Project, error) {
	args := m.Called(ctx, workspaceID, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Analytics(ctx context.Context, workspaceID, projectID uuid.UUID) (*models.TaskAnalytics, error) {
	args := m.Called(ctx, workspaceID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskAnalytics), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, workspaceID, projectID uuid.UUID) error {
	return m.Called(ctx, workspaceID, projectID).Error(0)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, workspaceID, projectID, userID uuid.UUID, in services.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, workspaceID, projectID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, workspaceID, projectID, taskID uuid.UUID, in services.UpdateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, workspaceID, projectID, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, workspaceID uuid.UUID, filter services.TaskFilter, page services.Pagination) ([]models.Task, services.PageInfo, error) {
	args := m.Called(ctx, workspaceID, filter, page)
	if args.Get(0) == nil {
		return nil, services.PageInfo{}, args.Error(2)
	}
	return args.Get(0).([]models.Task), args.Get(1).(services.PageInfo), args.Error(2)
}

func (m *MockTaskService) Get(ctx context.Context, workspaceID, projectID, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, workspaceID, projectID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, workspaceID, taskID uuid.UUID) error {
	return m.Called(ctx, workspaceID, taskID).Error(0)
}

// MockOAuthProvider mocks an oauth.Provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) Name() string {
	return "google"
}

func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}
