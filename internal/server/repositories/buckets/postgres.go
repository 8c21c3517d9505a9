package buckets

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

func (r *PostgresRepository) Create(ctx context.Context, bucket *models.Bucket) (*models.Bucket, error) {
	if bucket.ID == "" {
		bucket.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO buckets (id, title)
         VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, bucket.ID, bucket.Title).Scan(&bucket.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return bucket, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Bucket, error) {
	b := &models.Bucket{}
	err := r.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM buckets WHERE id = $1`, id).
		Scan(&b.ID, &b.Title, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, created_at FROM buckets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Bucket, 0)
	for rows.Next() {
		var b models.Bucket
		if err := rows.Scan(&b.ID, &b.Title, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
