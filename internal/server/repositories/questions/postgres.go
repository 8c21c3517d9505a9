package questions

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

// Anonymous questions have no author row, hence the LEFT JOIN.
const selectQuestion = `SELECT q.id, q.bucket_id, q.author_id, u.username, q.question_text, q.on_floor, q.created_at
		 FROM questions q LEFT JOIN users u ON u.id = q.author_id
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

func scanQuestion(s scanner) (*models.Question, error) {
	q := &models.Question{}
	var authorID, authorName sql.NullString
	if err := s.Scan(&q.ID, &q.BucketID, &authorID, &authorName, &q.Text, &q.OnFloor, &q.CreatedAt); err != nil {
		return nil, err
	}
	q.AuthorID = authorID.String
	q.AuthorName = authorName.String
	return q, nil
}

func (r *PostgresRepository) Create(ctx context.Context, question *models.Question) (*models.Question, error) {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO questions (id, bucket_id, author_id, question_text)
         VALUES ($1, $2, $3, $4)
		 RETURNING on_floor, created_at
		 `

	author := sql.NullString{String: question.AuthorID, Valid: question.AuthorID != ""}
	err := r.db.QueryRowContext(ctx, query, question.ID, question.BucketID, author, question.Text).
		Scan(&question.OnFloor, &question.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return question, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx, selectQuestion+`WHERE q.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return q, nil
}

// ListByBucket returns a bucket's questions oldest first, without answers.
func (r *PostgresRepository) ListByBucket(ctx context.Context, bucketID string, onFloorOnly bool) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		selectQuestion+`WHERE q.bucket_id = $1 AND (q.on_floor OR NOT $2) ORDER BY q.created_at`, bucketID, onFloorOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetOnFloor(ctx context.Context, id string, onFloor bool) error {
	return r.exec(ctx, `UPDATE questions SET on_floor = $2 WHERE id = $1`, id, onFloor)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
}

func (r *PostgresRepository) CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO answers (id, question_id, author_id, answer_text)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, answer.ID, answer.QuestionID, answer.AuthorID, answer.Text).Scan(&answer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return answer, nil
}

// ListAnswersByBucket returns every answer to the bucket's questions, oldest first.
func (r *PostgresRepository) ListAnswersByBucket(ctx context.Context, bucketID string) ([]models.Answer, error) {
	query :=
		`SELECT a.id, a.question_id, a.author_id, u.username, a.answer_text, a.created_at
		 FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 JOIN users u ON u.id = a.author_id
		 WHERE q.bucket_id = $1
		 ORDER BY a.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, bucketID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Answer, 0)
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.AuthorName, &a.Text, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
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
