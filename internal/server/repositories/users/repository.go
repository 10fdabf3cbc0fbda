package users

import (
	"context"

	"github.com/avagyans/filegate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// SetRoles replaces the user's role set.
	SetRoles(ctx context.Context, userID int64, roleIDs []int64) error
}
