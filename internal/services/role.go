package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type RoleService struct {
	db    *database.DB
	table *permissions.Table
}

func NewRoleService(db *database.DB, table *permissions.Table) *RoleService {
	return &RoleService{db: db, table: table}
}

// Seed inserts one role per permission table entry. It is a no-op when any
// role already exists, and all inserts share one transaction.
func (s *RoleService) Seed(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		log.Info().Int("existing", count).Msg("Roles already exist, skipping seeding")
		return 0, nil
	}

	names := s.table.Roles()
	err := database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for _, name := range names {
			perms := permissions.Strings(s.table.Permissions(name))
			if _, err := tx.Exec(ctx, `
				INSERT INTO roles (name, permissions)
				VALUES ($1, $2)
			`, name, perms); err != nil {
				return fmt.Errorf("failed to insert role %s: %w", name, err)
			}
			log.Debug().Str("role", name).Int("permissions", len(perms)).Msg("Seeded role")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int("roles", len(names)).Msg("Role seeding completed")
	return len(names), nil
}

func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Internal("failed to list roles", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, apperr.Internal("failed to list roles", err)
		}
		roles = append(roles, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list roles", err)
	}
	return roles, nil
}

func findRoleByName(ctx context.Context, q database.Querier, name string) (*models.Role, error) {
	role, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound(fmt.Sprintf("%s role not found", name))
		}
		return nil, apperr.Internal("failed to load role", err)
	}
	return role, nil
}

func findRoleByID(ctx context.Context, q database.Querier, id uuid.UUID) (*models.Role, error) {
	role, err := scanRole(q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("Role not found")
		}
		return nil, apperr.Internal("failed to load role", err)
	}
	return role, nil
}
