package files

import (
	"context"

	"github.com/avagyans/filegate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
	GetByKey(ctx context.Context, s3Key string) (*models.File, error)
	// ListByFolder returns rows whose folder_path equals the requested path,
	// with the owner's username joined in.
	ListByFolder(ctx context.Context, folderPath string) ([]*models.File, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.File, error)
	// MarkComplete records the observed object size and flips the row out of
	// its pending state.
	MarkComplete(ctx context.Context, id int64, size int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByKey(ctx context.Context, s3Key string) error
}
