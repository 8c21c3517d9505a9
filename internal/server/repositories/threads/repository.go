package threads

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, thread *models.Thread) (*models.Thread, error)
	GetByID(ctx context.Context, id string) (*models.Thread, error)
	ListByForum(ctx context.Context, forumID string, limit int) ([]models.Thread, error)
	SetLocked(ctx context.Context, id string, locked bool) error
	Archive(ctx context.Context, id string) error
}
