package middleware

import (
	"context"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	SessionCookieName = "session"

	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*services.Session, error)
}

// Auth requires a valid session cookie and stores the session's user id and
// session id on the context.
func Auth(sessions SessionResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		token := SessionToken(c)
		if token == "" {
			abortWithError(c, apperr.Unauthorized("Unauthorized. Please log in."))
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(UserIDKey, session.UserID)
		c.Set(SessionIDKey, session.ID)
		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

// SessionToken returns the raw session cookie, or "" when the request has none.
func SessionToken(c *drift.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
