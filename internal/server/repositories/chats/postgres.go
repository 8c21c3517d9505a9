package chats

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

const (
	selectChat = `SELECT c.id, c.name, c.owner_id, u.username, c.created_at
		 FROM chats c JOIN users u ON u.id = c.owner_id
		 `
	selectMessage = `SELECT m.id, m.chat_id, m.author_id, u.username, m.reply_id, m.content, m.created_at
		 FROM messages m JOIN users u ON u.id = m.author_id
		 `
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(s scanner) (*models.Chat, error) {
	c := &models.Chat{}
	if err := s.Scan(&c.ID, &c.Name, &c.OwnerID, &c.OwnerName, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func scanMessage(s scanner) (*models.Message, error) {
	m := &models.Message{}
	var reply sql.NullString
	if err := s.Scan(&m.ID, &m.ChatID, &m.AuthorID, &m.AuthorName, &reply, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ReplyID = reply.String
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO chats (id, name, owner_id)
         VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, chat.ID, chat.Name, chat.OwnerID).Scan(&chat.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return chat, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	c, err := scanChat(r.db.QueryRowContext(ctx, selectChat+`WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByMember(ctx context.Context, userID string) ([]models.Chat, error) {
	rows, err := r.db.QueryContext(ctx,
		selectChat+`JOIN chat_members cm ON cm.chat_id = c.id WHERE cm.user_id = $1 ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// AddMember is idempotent.
func (r *PostgresRepository) AddMember(ctx context.Context, chatID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, chatID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)`, chatID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO messages (id, chat_id, author_id, reply_id, content)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	reply := sql.NullString{String: message.ReplyID, Valid: message.ReplyID != ""}
	err := r.db.QueryRowContext(ctx, query, message.ID, message.ChatID, message.AuthorID, reply, message.Content).
		Scan(&message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return message, nil
}

func (r *PostgresRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, selectMessage+`WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// ListMessages returns the newest limit messages of a chat, newest first.
func (r *PostgresRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, selectMessage+`WHERE m.chat_id = $1 ORDER BY m.created_at DESC LIMIT $2`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
