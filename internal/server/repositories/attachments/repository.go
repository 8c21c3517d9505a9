package attachments

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Attachment, error)
}
