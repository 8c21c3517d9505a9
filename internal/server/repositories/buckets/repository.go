package buckets

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, bucket *models.Bucket) (*models.Bucket, error)
	GetByID(ctx context.Context, id string) (*models.Bucket, error)
	List(ctx context.Context) ([]models.Bucket, error)
}
