package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableSessionService points at a closed port so any Redis round trip
// fails with a connection error.
func unreachableSessionService(t *testing.T) *SessionService {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionService(client, NewJWTService("test-session-secret"), time.Hour)
}

func TestSessionService_Resolve_RejectsBadTokenBeforeRedis(t *testing.T) {
	svc := unreachableSessionService(t)

	_, err := svc.Resolve(context.Background(), "not-a-token")

	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestSessionService_Resolve_RejectsForeignSignature(t *testing.T) {
	svc := unreachableSessionService(t)
	other := NewJWTService("some-other-secret")
	now := time.Now()
	token, err := other.SignSession(uuid.New(), uuid.New(), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), token)

	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestSessionService_Resolve_StoreDown(t *testing.T) {
	svc := unreachableSessionService(t)
	now := time.Now()
	token, err := svc.jwt.SignSession(uuid.New(), uuid.New(), now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), token)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestSessionService_Destroy_IgnoresBadToken(t *testing.T) {
	svc := unreachableSessionService(t)

	assert.NoError(t, svc.Destroy(context.Background(), "garbage"))
}

func TestSessionService_Create_StoreDown(t *testing.T) {
	svc := unreachableSessionService(t)

	_, _, err := svc.Create(context.Background(), uuid.New())

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestSessionService_ConsumeOAuthState_Empty(t *testing.T) {
	svc := unreachableSessionService(t)

	ok, err := svc.ConsumeOAuthState(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, ok)
}
