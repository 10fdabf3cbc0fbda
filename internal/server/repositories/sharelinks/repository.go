package sharelinks

import (
	"context"

	"github.com/avagyans/filegate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error)
	GetByToken(ctx context.Context, token string) (*models.ShareLink, error)
	DeleteForFile(ctx context.Context, fileID int64) error
}
