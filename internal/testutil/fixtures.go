package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword satisfies the registration password rules.
const TestPassword = "Hunter22!"

// Fixtures creates test data through the real services so that every row
// goes through the same workflows as production code.
type Fixtures struct {
	db      *database.DB
	counter int

	Auth       *services.AuthService
	Workspaces *services.WorkspaceService
	Members    *services.MemberService
	Projects   *services.ProjectService
	Tasks      *services.TaskService
}

// NewFixtures seeds the roles and returns a factory bound to db.
func NewFixtures(t *testing.T, db *database.DB) *Fixtures {
	t.Helper()
	if _, err := services.NewRoleService(db, permissions.DefaultTable()).Seed(context.Background()); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	return &Fixtures{
		db:         db,
		Auth:       services.NewAuthService(db, services.NewPasswordHasherWithCost(bcrypt.MinCost)),
		Workspaces: services.NewWorkspaceService(db),
		Members:    services.NewMemberService(db),
		Projects:   services.NewProjectService(db),
		Tasks:      services.NewTaskService(db),
	}
}

// RegisteredUser is a local account together with its default workspace.
type RegisteredUser struct {
	ID          uuid.UUID
	Email       string
	WorkspaceID uuid.UUID
}

func (f *Fixtures) RegisterUser(t *testing.T) RegisteredUser {
	t.Helper()
	f.counter++
	email := fmt.Sprintf("user%d@example.com", f.counter)

	userID, workspaceID, err := f.Auth.Register(context.Background(), services.RegisterInput{
		Name:     fmt.Sprintf("Test User %d", f.counter),
		Email:    email,
		Password: TestPassword,
	})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return RegisteredUser{ID: userID, Email: email, WorkspaceID: workspaceID}
}

// JoinAsMember adds userID to workspaceID with the MEMBER role.
func (f *Fixtures) JoinAsMember(t *testing.T, userID, workspaceID uuid.UUID) {
	t.Helper()
	ws, err := f.Workspaces.GetByID(context.Background(), workspaceID)
	if err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}
	if _, _, err := f.Members.JoinWorkspaceByInvite(context.Background(), userID, ws.InviteCode); err != nil {
		t.Fatalf("failed to join workspace: %v", err)
	}
}

func (f *Fixtures) CreateProject(t *testing.T, workspaceID, userID uuid.UUID, name string) *models.Project {
	t.Helper()
	project, err := f.Projects.Create(context.Background(), workspaceID, userID, services.CreateProjectInput{Name: name})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func (f *Fixtures) CreateTask(t *testing.T, workspaceID, projectID, userID uuid.UUID, title string, opts ...func(*services.CreateTaskInput)) *models.Task {
	t.Helper()
	in := services.CreateTaskInput{Title: title}
	for _, opt := range opts {
		opt(&in)
	}
	task, err := f.Tasks.Create(context.Background(), workspaceID, projectID, userID, in)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}
