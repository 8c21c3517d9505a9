package questions

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/models"
)

// Repository stores questions and their answers.
type Repository interface {
	Create(ctx context.Context, question *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	ListByBucket(ctx context.Context, bucketID string, onFloorOnly bool) ([]models.Question, error)
	SetOnFloor(ctx context.Context, id string, onFloor bool) error
	Delete(ctx context.Context, id string) error

	CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error)
	ListAnswersByBucket(ctx context.Context, bucketID string) ([]models.Answer, error)
}
