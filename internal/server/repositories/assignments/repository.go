package assignments

import (
	"context"

	"github.com/avagyans/filegate/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, a *models.FolderAssignment) (*models.FolderAssignment, error)
	// UpdateFlags overwrites the three capability booleans of an existing
	// row in place, leaving assigned_by/assigned_at untouched.
	UpdateFlags(ctx context.Context, id int64, canRead, canWrite, canDelete bool) error
	GetByFolderUser(ctx context.Context, folderPath string, userID int64) (*models.FolderAssignment, error)
	GetByID(ctx context.Context, id int64) (*models.FolderAssignment, error)
	ListAll(ctx context.Context) ([]*models.FolderAssignment, error)
	ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error)
	// ListReadableForUser returns only rows with can_read set.
	ListReadableForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error)
	Delete(ctx context.Context, id int64) error
	DeleteByFolderUser(ctx context.Context, folderPath string, userID int64) error
}
