package posts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	UpdateContent(ctx context.Context, id, content string, modifiedAt time.Time) error
	Censor(ctx context.Context, id, replacement string) error
	ListByThread(ctx context.Context, threadID string) ([]models.Post, error)
	ListByAuthor(ctx context.Context, userName string) ([]models.Post, error)
}
