package attachments

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

// Create inserts attachment metadata. The storage key defaults to the attachment id.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.StorageKey == "" {
		a.StorageKey = a.ID
	}

	query :=
		`INSERT INTO attachments (id, post_id, storage_key)
         VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, a.ID, a.PostID, a.StorageKey).Scan(&a.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	query :=
		`SELECT id, post_id, storage_key, created_at FROM attachments
		 WHERE id = $1
		 `

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.PostID, &a.StorageKey, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]models.Attachment, error) {
	query :=
		`SELECT id, post_id, storage_key, created_at FROM attachments
		 WHERE post_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Attachment, 0)
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.PostID, &a.StorageKey, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
