package users

import (
	"context"

	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByName(ctx context.Context, userName string) (*models.User, error)
	SetRoles(ctx context.Context, userName string, roles []auth.Role) error
	SetBanned(ctx context.Context, userName string, banned bool) error
}
