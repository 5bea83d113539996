package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/config"
	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

const oauthExchangeTimeout = 30 * time.Second

type AuthHandler struct {
	cfg      *config.Config
	auth     AuthServiceInterface
	sessions SessionServiceInterface
	google   oauth.Provider
}

// NewAuthHandler wires the auth endpoints. google may be nil when Google
// login is not configured.
func NewAuthHandler(cfg *config.Config, auth AuthServiceInterface, sessions SessionServiceInterface, google oauth.Provider) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth, sessions: sessions, google: google}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, workspaceID, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message:     "User created successfully",
		UserID:      userID,
		WorkspaceID: workspaceID,
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		middleware.RespondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Logged in successfully",
		User:    toUserResponse(user),
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			middleware.RespondError(c, err)
			return
		}
	}

	h.clearSessionCookie(c)
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// GoogleLogin redirects the browser to Google's consent screen.
func (h *AuthHandler) GoogleLogin(c *drift.Context) {
	if h.google == nil {
		middleware.RespondError(c, apperr.BadRequest("Google login is not configured"))
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		middleware.RespondError(c, apperr.Internal("failed to generate state", err))
		return
	}
	if err := h.sessions.StoreOAuthState(c.Request.Context(), state); err != nil {
		middleware.RespondError(c, err)
		return
	}

	h.redirect(c, h.google.AuthCodeURL(state))
}

// GoogleCallback finishes the OAuth flow, starts a session and sends the
// browser to the user's current workspace.
func (h *AuthHandler) GoogleCallback(c *drift.Context) {
	if h.google == nil {
		h.redirectFailure(c, "google login not configured")
		return
	}

	ok, err := h.sessions.ConsumeOAuthState(c.Request.Context(), c.QueryParam("state"))
	if err != nil || !ok {
		h.redirectFailure(c, "invalid or expired state")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectFailure(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), oauthExchangeTimeout)
	defer cancel()

	info, err := h.google.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("Google code exchange failed")
		h.redirectFailure(c, "code exchange failed")
		return
	}

	user, err := h.auth.LoginOrCreateFromOAuth(ctx, info)
	if err != nil {
		log.Warn().Err(err).Str("email", info.Email).Msg("Google login failed")
		h.redirectFailure(c, "login failed")
		return
	}
	if user.CurrentWorkspaceID == nil {
		h.redirectFailure(c, "user has no workspace")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to start session")
		h.redirectFailure(c, "session failed")
		return
	}

	h.redirect(c, h.cfg.FrontendOrigin+"/workspace/"+user.CurrentWorkspaceID.String())
}

func (h *AuthHandler) startSession(c *drift.Context, userID uuid.UUID) error {
	token, session, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	http.SetCookie(c.Response, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookie(c *drift.Context) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) redirectFailure(c *drift.Context, reason string) {
	log.Info().Str("reason", reason).Msg("Google login redirected with failure")
	h.redirect(c, h.cfg.FrontendGoogleCallbackURL+"?status=failure")
}

func (h *AuthHandler) redirect(c *drift.Context, target string) {
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
