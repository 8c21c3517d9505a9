package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/google/uuid"
)

const selectPost = `SELECT p.id, p.thread_id, p.author_id, u.username, p.parent_id, p.content, p.censored, p.created_at, p.modified_at
		 FROM posts p JOIN users u ON u.id = p.author_id
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{}
	var parent sql.NullString
	var modified sql.NullTime

	if err := s.Scan(&p.ID, &p.ThreadID, &p.AuthorID, &p.AuthorName, &parent, &p.Content, &p.Censored, &p.CreatedAt, &modified); err != nil {
		return nil, err
	}
	p.ParentID = parent.String
	if modified.Valid {
		p.ModifiedAt = &modified.Time
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO posts (id, thread_id, author_id, parent_id, content)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	parent := sql.NullString{String: post.ParentID, Valid: post.ParentID != ""}
	err := r.db.QueryRowContext(ctx, query, post.ID, post.ThreadID, post.AuthorID, parent, post.Content).Scan(&post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, content string, modifiedAt time.Time) error {
	query :=
		`UPDATE posts SET content = $2, modified_at = $3
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, content, modifiedAt)
}

// Censor replaces the content and flags the post; the original text is not kept.
func (r *PostgresRepository) Censor(ctx context.Context, id, replacement string) error {
	query :=
		`UPDATE posts SET content = $2, censored = TRUE
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, replacement)
}

func (r *PostgresRepository) ListByThread(ctx context.Context, threadID string) ([]models.Post, error) {
	return r.list(ctx, selectPost+`WHERE p.thread_id = $1 ORDER BY p.created_at`, threadID)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, userName string) ([]models.Post, error) {
	return r.list(ctx, selectPost+`WHERE u.username = $1 ORDER BY p.created_at DESC`, userName)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
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
