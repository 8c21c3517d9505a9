package threads

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

func (r *PostgresRepository) Create(ctx context.Context, thread *models.Thread) (*models.Thread, error) {
	if thread.ID == "" {
		thread.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO threads (id, forum_id, author_id, title)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, thread.ID, thread.ForumID, thread.AuthorID, thread.Title).Scan(&thread.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return thread, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	query :=
		`SELECT t.id, t.forum_id, t.author_id, u.username, t.title, t.locked, t.archived, t.created_at
		 FROM threads t JOIN users u ON u.id = t.author_id
		 WHERE t.id = $1
		 `

	t := &models.Thread{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ForumID, &t.AuthorID, &t.AuthorName, &t.Title, &t.Locked, &t.Archived, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

// ListByForum returns the newest non-archived threads of a forum.
func (r *PostgresRepository) ListByForum(ctx context.Context, forumID string, limit int) ([]models.Thread, error) {
	query :=
		`SELECT t.id, t.forum_id, t.author_id, u.username, t.title, t.locked, t.archived, t.created_at
		 FROM threads t JOIN users u ON u.id = t.author_id
		 WHERE t.forum_id = $1 AND NOT t.archived
		 ORDER BY t.created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, forumID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Thread, 0)
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.ForumID, &t.AuthorID, &t.AuthorName, &t.Title, &t.Locked, &t.Archived, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	return r.exec(ctx, `UPDATE threads SET locked = $2 WHERE id = $1`, id, locked)
}

func (r *PostgresRepository) Archive(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE threads SET archived = TRUE WHERE id = $1`, id)
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
