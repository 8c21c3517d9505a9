package forums

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, forum *models.Forum) (*models.Forum, error)
	List(ctx context.Context) ([]models.Forum, error)
	GetByID(ctx context.Context, id string) (*models.Forum, error)
}
