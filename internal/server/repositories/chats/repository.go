package chats

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

// Repository stores chats, their members and their messages.
type Repository interface {
	Create(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	GetByID(ctx context.Context, id string) (*models.Chat, error)
	ListByMember(ctx context.Context, userID string) ([]models.Chat, error)
	AddMember(ctx context.Context, chatID, userID string) error
	IsMember(ctx context.Context, chatID, userID string) (bool, error)

	CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error)
}
