package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Roles travel as a comma-joined string and are split into TEXT[] by Postgres.
func joinRoles(roles []auth.Role) string {
	return strings.Join(auth.RoleNames(roles), ",")
}

func splitRoles(s string) ([]auth.Role, error) {
	if s == "" {
		return []auth.Role{}, nil
	}
	return auth.ParseRoles(strings.Split(s, ","))
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, display_name, password_hash, roles)
         VALUES ($1, $2, $3, $4, string_to_array($5, ','))
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, user.DisplayName, user.PasswordHash, joinRoles(user.Roles)).Scan(&user.CreatedAt)

	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByName(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, display_name, password_hash, array_to_string(roles, ','), banned, created_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var roles string
	err := r.db.QueryRowContext(ctx, query, userName).Scan(
		&user.ID, &user.UserName, &user.DisplayName, &user.PasswordHash, &roles, &user.Banned, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.Roles, err = splitRoles(roles); err != nil {
		return nil, fmt.Errorf("db error: user %s: %w", userName, err)
	}

	return user, nil
}

func (r *PostgresRepository) SetRoles(ctx context.Context, userName string, roles []auth.Role) error {
	query :=
		`UPDATE users SET roles = string_to_array($2, ',')
		 WHERE username = $1
		 `

	return r.exec(ctx, query, userName, joinRoles(roles))
}

func (r *PostgresRepository) SetBanned(ctx context.Context, userName string, banned bool) error {
	query :=
		`UPDATE users SET banned = $2
		 WHERE username = $1
		 `

	return r.exec(ctx, query, userName, banned)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
