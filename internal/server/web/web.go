// Package web exposes the HTTP surface over gin: authentication middleware,
// permission-gated file and folder operations, and the admin interfaces for
// users, roles and folder assignments.
package web

import (
	"context"
	"time"

	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/services"
	"github.com/avagyans/filegate/internal/server/storage"
)

// The handler layer consumes the business logic through these interfaces so
// tests can substitute lightweight fakes.

type UserService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	GetPrincipal(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username, email, password string, isActive, isAdmin bool, roleIDs []int64, createdBy *int64) (*models.User, error)
	Update(ctx context.Context, id int64, email string, isActive, isAdmin bool, roleIDs []int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type RoleService interface {
	Create(ctx context.Context, role *models.Role) (*models.Role, error)
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	Update(ctx context.Context, role *models.Role) (*models.Role, error)
	Delete(ctx context.Context, id int64) error
}

type ListingService interface {
	ListFolder(ctx context.Context, folderPath string) ([]models.ListEntry, error)
	ListFolders(ctx context.Context, folderPath string) ([]models.FolderInfo, error)
}

type FileService interface {
	Get(ctx context.Context, id int64) (*models.File, error)
	IssueUpload(ctx context.Context, owner *models.User, folderPath, filename, contentType string) (*models.File, *storage.UploadURL, error)
	CompleteUpload(ctx context.Context, id int64) (*models.File, error)
	DownloadByID(ctx context.Context, id int64) (string, error)
	DownloadByKey(ctx context.Context, key string) (string, error)
	Copy(ctx context.Context, principal *models.User, id int64, dstFolderPath string) (*models.File, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByKey(ctx context.Context, key string) error
	BulkDelete(ctx context.Context, ids []int64) ([]services.BulkDeleteResult, error)
	CreateFolder(ctx context.Context, parentPath, name string) (string, error)
}

type ShareService interface {
	DirectPresign(ctx context.Context, fileID int64, expiresInHours int) (string, int, error)
	CreateLink(ctx context.Context, principal *models.User, fileID int64, expiresAt time.Time) (*models.ShareLink, error)
	ResolveToken(ctx context.Context, token string) (string, *models.File, error)
}

type AssignmentService interface {
	Upsert(ctx context.Context, folderPath string, userID int64, flags services.AssignmentFlags, assignerID *int64) (*models.FolderAssignment, error)
	BulkUpsert(ctx context.Context, folderPath string, userIDs []int64, flags services.AssignmentFlags, assignerID *int64) ([]*models.FolderAssignment, error)
	ListAll(ctx context.Context) ([]*models.FolderAssignment, error)
	ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error)
	Mine(ctx context.Context, principal *models.User) (*services.MyFolders, error)
	Remove(ctx context.Context, id int64) error
	RemoveByFolderUser(ctx context.Context, folderPath string, userID int64) error
}

// Services bundles everything the router needs.
type Services struct {
	Users       UserService
	Roles       RoleService
	Listing     ListingService
	Files       FileService
	Shares      ShareService
	Assignments AssignmentService
}
