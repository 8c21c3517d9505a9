package articles

import (
	"context"
	"time"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	ListPublished(ctx context.Context, limit int) ([]models.Article, error)
	Publish(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
