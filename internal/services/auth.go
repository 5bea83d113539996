package services

import (
	"context"
	"strings"
	"time"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService struct {
	db     *database.DB
	hasher *PasswordHasher
	now    func() time.Time
}

func NewAuthService(db *database.DB, hasher *PasswordHasher) *AuthService {
	return &AuthService{db: db, hasher: hasher, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultWorkspace(userName string) CreateWorkspaceInput {
	desc := "Workspace created for " + userName
	return CreateWorkspaceInput{Name: DefaultWorkspaceName, Description: &desc}
}

func errEmailExists() error {
	return apperr.BadRequest("Email already exists").WithCode(apperr.CodeAuthEmailExists)
}

func errInvalidCredentials() error {
	return apperr.Unauthorized("Invalid email or password").WithCode(apperr.CodeAuthInvalid)
}

// Register creates a local account together with its default workspace and
// returns the new user id and workspace id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, uuid.UUID, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Internal("failed to hash password", err)
	}

	var userID, workspaceID uuid.UUID
	err = database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
			return apperr.Internal("failed to check email", err)
		}
		if exists {
			return errEmailExists()
		}

		if err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id
		`, name, email, hash).Scan(&userID); err != nil {
			if database.IsUniqueViolation(err) {
				return errEmailExists()
			}
			return apperr.Internal("failed to insert user", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO accounts (user_id, provider, provider_id)
			VALUES ($1, $2, $3)
		`, userID, models.ProviderEmail, email); err != nil {
			return apperr.Internal("failed to insert account", err)
		}

		workspace, err := createWorkspaceTx(ctx, tx, userID, defaultWorkspace(name))
		if err != nil {
			return err
		}
		workspaceID = workspace.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Wrap(err, "failed to register user")
	}

	log.Info().Str("user_id", userID.String()).Msg("User registered")
	return userID, workspaceID, nil
}

// VerifyCredentials checks an email/password pair against the local account.
// Every failure is reported as the same Unauthorized error.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+prefixColumns("u", userColumns)+`
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		WHERE a.provider = $1 AND a.provider_id = $2
	`, models.ProviderEmail, normalizeEmail(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, errInvalidCredentials()
		}
		return nil, apperr.Internal("failed to load account", err)
	}
	if !user.IsActive || !user.HasPassword() || !s.hasher.Verify(password, *user.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	if err := s.touchLastLogin(ctx, s.db.Pool, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginOrCreateFromOAuth returns the user owning info's email, creating the
// user, the provider account and a default workspace on first login.
func (s *AuthService) LoginOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	email := normalizeEmail(info.Email)
	if email == "" {
		return nil, apperr.BadRequest("OAuth provider did not return an email address")
	}

	var user *models.User
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		user, err = scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		if err == nil {
			return s.touchLastLogin(ctx, tx, user)
		}
		if !isNoRows(err) {
			return apperr.Internal("failed to load user", err)
		}

		name := strings.TrimSpace(info.Name)
		if name == "" {
			name = email
		}
		user, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (name, email, profile_picture)
			VALUES ($1, $2, $3)
			RETURNING `+userColumns,
			name, email, optionalText(&info.AvatarURL)))
		if err != nil {
			return apperr.Internal("failed to insert user", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO accounts (user_id, provider, provider_id)
			VALUES ($1, $2, $3)
		`, user.ID, info.Provider, info.ID); err != nil {
			return apperr.Internal("failed to insert account", err)
		}

		workspace, err := createWorkspaceTx(ctx, tx, user.ID, defaultWorkspace(name))
		if err != nil {
			return err
		}
		user.CurrentWorkspaceID = &workspace.ID

		log.Info().Str("user_id", user.ID.String()).Str("provider", info.Provider).Msg("User created from OAuth login")
		return s.touchLastLogin(ctx, tx, user)
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to log in with OAuth")
	}
	return user, nil
}

func (s *AuthService) touchLastLogin(ctx context.Context, q database.Querier, user *models.User) error {
	now := s.now()
	if _, err := q.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, now, user.ID); err != nil {
		return apperr.Internal("failed to record login", err)
	}
	user.LastLogin = &now
	return nil
}
