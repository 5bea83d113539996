package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/mock"
)

const testSessionToken = "session-token"

type route struct {
	method  string
	path    string
	handler drift.HandlerFunc
}

// testEnv carries the session and membership mocks shared by handler tests.
// Requests made with client() are authenticated as userID.
type testEnv struct {
	userID   uuid.UUID
	sessions *testutil.MockSessionService
	members  *testutil.MockMemberService
	table    *permissions.Table
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userID := uuid.New()
	sessions := new(testutil.MockSessionService)
	now := time.Now()
	sessions.On("Resolve", mock.Anything, testSessionToken).Return(&services.Session{
		ID: uuid.New(), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}, nil).Maybe()

	return &testEnv{
		userID:   userID,
		sessions: sessions,
		members:  new(testutil.MockMemberService),
		table:    permissions.DefaultTable(),
	}
}

// withRole makes the caller a member of workspaceID holding role.
func (e *testEnv) withRole(workspaceID uuid.UUID, role string) {
	e.members.On("GetMemberRoleInWorkspace", mock.Anything, e.userID, workspaceID).Return(role, nil)
}

// client mounts routes behind the session middleware and returns an
// authenticated client for them.
func (e *testEnv) client(t *testing.T, routes ...route) *testutil.HTTPTestClient {
	t.Helper()
	app := drift.New()
	app.Use(middleware.Auth(e.sessions))
	for _, r := range routes {
		switch r.method {
		case http.MethodGet:
			app.Get(r.path, r.handler)
		case http.MethodPost:
			app.Post(r.path, r.handler)
		case http.MethodPut:
			app.Put(r.path, r.handler)
		case http.MethodPatch:
			app.Patch(r.path, r.handler)
		case http.MethodDelete:
			app.Delete(r.path, r.handler)
		default:
			t.Fatalf("unsupported method %s", r.method)
		}
	}
	return testutil.NewHTTPTestClient(t, app).WithSession(testSessionToken)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		ErrorCode string `json:"error_code"`
	}
	_ = json.Unmarshal(body, &resp)
	return resp.ErrorCode
}
