package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	sessionKeyPrefix    = "session:"
	oauthStateKeyPrefix = "oauth_state:"
	OAuthStateTTL       = 10 * time.Minute
)

type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService keeps login sessions in Redis and hands out signed cookie
// tokens that reference them.
type SessionService struct {
	client *redis.Client
	jwt    *JWTService
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(client *redis.Client, jwt *JWTService, ttl time.Duration) *SessionService {
	return &SessionService{client: client, jwt: jwt, ttl: ttl, now: time.Now}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session for userID and returns the cookie token.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, *Session, error) {
	now := s.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", nil, apperr.Internal("failed to encode session", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID.String(), data, s.ttl).Err(); err != nil {
		return "", nil, apperr.Internal("failed to store session", err)
	}

	token, err := s.jwt.SignSession(session.ID, userID, now, session.ExpiresAt)
	if err != nil {
		return "", nil, apperr.Internal("failed to sign session", err)
	}
	return token, session, nil
}

// Resolve returns the live session behind token. A bad signature is rejected
// before Redis is consulted.
func (s *SessionService) Resolve(ctx context.Context, token string) (*Session, error) {
	sessionID, userID, err := s.jwt.ParseSession(token)
	if err != nil {
		return nil, apperr.Unauthorized("Unauthorized. Please log in.")
	}

	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.Unauthorized("Session expired. Please log in.")
		}
		return nil, apperr.Internal("failed to load session", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperr.Internal("failed to decode session", err)
	}
	if session.UserID != userID {
		log.Warn().Str("session_id", sessionID.String()).Msg("Session token subject does not match stored session")
		return nil, apperr.Unauthorized("Unauthorized. Please log in.")
	}
	return &session, nil
}

// Destroy deletes the session behind token. Unparseable tokens are ignored.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	sessionID, _, err := s.jwt.ParseSession(token)
	if err != nil {
		return nil
	}
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID.String()).Err(); err != nil {
		return apperr.Internal("failed to delete session", err)
	}
	return nil
}

func (s *SessionService) StoreOAuthState(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, oauthStateKeyPrefix+state, "1", OAuthStateTTL).Err(); err != nil {
		return apperr.Internal("failed to store oauth state", err)
	}
	return nil
}

// ConsumeOAuthState reports whether state was issued and not used yet. A state
// can be consumed once.
func (s *SessionService) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, oauthStateKeyPrefix+state).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperr.Internal("failed to consume oauth state", err)
	}
	return true, nil
}
