package articles

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

const selectArticle = `SELECT a.id, a.author_id, u.username, a.title, a.body, a.published, a.created_at, a.published_at
		 FROM articles a JOIN users u ON u.id = a.author_id
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

func scanArticle(s scanner) (*models.Article, error) {
	a := &models.Article{}
	var published sql.NullTime
	if err := s.Scan(&a.ID, &a.AuthorID, &a.AuthorName, &a.Title, &a.Body, &a.Published, &a.CreatedAt, &published); err != nil {
		return nil, err
	}
	if published.Valid {
		a.PublishedAt = &published.Time
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO articles (id, author_id, title, body)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, article.ID, article.AuthorID, article.Title, article.Body).Scan(&article.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return article, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, selectArticle+`WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// ListPublished returns the most recently published articles first.
func (r *PostgresRepository) ListPublished(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := r.db.QueryContext(ctx, selectArticle+`WHERE a.published ORDER BY a.published_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Publish is idempotent: the first publication time is kept.
func (r *PostgresRepository) Publish(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, `UPDATE articles SET published = TRUE, published_at = COALESCE(published_at, $2) WHERE id = $1`, id, at)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
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
