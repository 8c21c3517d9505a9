package forums

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, forum *models.Forum) (*models.Forum, error) {
	if forum.ID == "" {
		forum.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO forums (id, title, description)
         VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, forum.ID, forum.Title, forum.Description); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return forum, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Forum, error) {
	query :=
		`SELECT id, title, description FROM forums
		 ORDER BY title
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Forum, 0)
	for rows.Next() {
		var f models.Forum
		if err := rows.Scan(&f.ID, &f.Title, &f.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Forum, error) {
	query :=
		`SELECT id, title, description FROM forums
		 WHERE id = $1
		 `

	f := &models.Forum{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Title, &f.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}
