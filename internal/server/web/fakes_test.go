package web

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/logging"
	"github.com/avagyans/filegate/internal/server/config"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/services"
	"github.com/avagyans/filegate/internal/server/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake blacklist ---

type fakeBlacklist struct {
	revoked map[string]bool
	ttls    map[string]time.Duration
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: map[string]bool{}, ttls: map[string]time.Duration{}}
}

func (f *fakeBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[jti] = true
	f.ttls[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

// --- fake services ---

type fakeUserService struct {
	principals map[string]*models.User
	authToken  string
	authErr    error
}

func (f *fakeUserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return f.authToken, nil
}

func (f *fakeUserService) GetPrincipal(ctx context.Context, username string) (*models.User, error) {
	if p, ok := f.principals[username]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUserService) Create(ctx context.Context, username, email, password string, isActive, isAdmin bool, roleIDs []int64, createdBy *int64) (*models.User, error) {
	return &models.User{ID: 100, Username: username, Email: email, IsActive: isActive, IsAdmin: isAdmin}, nil
}

func (f *fakeUserService) Update(ctx context.Context, id int64, email string, isActive, isAdmin bool, roleIDs []int64) (*models.User, error) {
	return &models.User{ID: id, Email: email, IsActive: isActive, IsAdmin: isAdmin}, nil
}

func (f *fakeUserService) List(ctx context.Context) ([]*models.User, error) {
	return []*models.User{{ID: 1, Username: "admin"}}, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, p := range f.principals {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRoleService struct {
	createErr error
}

func (f *fakeRoleService) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	role.ID = 5
	return role, nil
}

func (f *fakeRoleService) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	return &models.Role{ID: id, Name: "Viewer", CanRead: true}, nil
}

func (f *fakeRoleService) List(ctx context.Context) ([]*models.Role, error) {
	return []*models.Role{{ID: 1, Name: "Admin"}}, nil
}

func (f *fakeRoleService) Update(ctx context.Context, role *models.Role) (*models.Role, error) {
	return role, nil
}

func (f *fakeRoleService) Delete(ctx context.Context, id int64) error { return nil }

type fakeListingService struct {
	entries []models.ListEntry
	folders []models.FolderInfo
	err     error

	requestedFolders []string
}

func (f *fakeListingService) ListFolder(ctx context.Context, folderPath string) ([]models.ListEntry, error) {
	f.requestedFolders = append(f.requestedFolders, folderPath)
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeListingService) ListFolders(ctx context.Context, folderPath string) ([]models.FolderInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.folders, nil
}

type fakeFileService struct {
	files map[int64]*models.File

	deletedIDs  []int64
	deletedKeys []string
	copiedIDs   []int64
}

func (f *fakeFileService) Get(ctx context.Context, id int64) (*models.File, error) {
	if file, ok := f.files[id]; ok {
		return file, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFileService) IssueUpload(ctx context.Context, owner *models.User, folderPath, filename, contentType string) (*models.File, *storage.UploadURL, error) {
	return &models.File{ID: 1, Filename: filename, S3Key: filename, FolderPath: folderPath, UploadStatus: models.UploadStatusPending},
		&storage.UploadURL{URL: "http://upload", Fields: map[string]string{}}, nil
}

func (f *fakeFileService) CompleteUpload(ctx context.Context, id int64) (*models.File, error) {
	return f.Get(ctx, id)
}

func (f *fakeFileService) DownloadByID(ctx context.Context, id int64) (string, error) {
	if _, err := f.Get(ctx, id); err != nil {
		return "", err
	}
	return "http://download", nil
}

func (f *fakeFileService) DownloadByKey(ctx context.Context, key string) (string, error) {
	return "http://download/" + key, nil
}

func (f *fakeFileService) Copy(ctx context.Context, principal *models.User, id int64, dstFolderPath string) (*models.File, error) {
	f.copiedIDs = append(f.copiedIDs, id)
	return &models.File{ID: 99, FolderPath: dstFolderPath}, nil
}

func (f *fakeFileService) DeleteByID(ctx context.Context, id int64) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeFileService) DeleteByKey(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeFileService) BulkDelete(ctx context.Context, ids []int64) ([]services.BulkDeleteResult, error) {
	var out []services.BulkDeleteResult
	for _, id := range ids {
		out = append(out, services.BulkDeleteResult{ID: id})
	}
	return out, nil
}

func (f *fakeFileService) CreateFolder(ctx context.Context, parentPath, name string) (string, error) {
	return "/" + name, nil
}

type fakeShareService struct {
	resolveURL  string
	resolveFile *models.File
	resolveErr  error

	requestedHours []int
}

func (f *fakeShareService) DirectPresign(ctx context.Context, fileID int64, expiresInHours int) (string, int, error) {
	f.requestedHours = append(f.requestedHours, expiresInHours)
	if expiresInHours > services.MaxDirectShareHours {
		expiresInHours = services.MaxDirectShareHours
	}
	return "http://share", expiresInHours, nil
}

func (f *fakeShareService) CreateLink(ctx context.Context, principal *models.User, fileID int64, expiresAt time.Time) (*models.ShareLink, error) {
	return &models.ShareLink{ID: 1, FileID: fileID, ShareToken: "tok", ExpiresAt: expiresAt}, nil
}

func (f *fakeShareService) ResolveToken(ctx context.Context, token string) (string, *models.File, error) {
	if f.resolveErr != nil {
		return "", nil, f.resolveErr
	}
	return f.resolveURL, f.resolveFile, nil
}

type fakeAssignmentService struct {
	mine *services.MyFolders
}

func (f *fakeAssignmentService) Upsert(ctx context.Context, folderPath string, userID int64, flags services.AssignmentFlags, assignerID *int64) (*models.FolderAssignment, error) {
	return &models.FolderAssignment{ID: 1, FolderPath: folderPath, UserID: userID,
		CanRead: flags.CanRead, CanWrite: flags.CanWrite, CanDelete: flags.CanDelete, AssignedBy: assignerID}, nil
}

func (f *fakeAssignmentService) BulkUpsert(ctx context.Context, folderPath string, userIDs []int64, flags services.AssignmentFlags, assignerID *int64) ([]*models.FolderAssignment, error) {
	var out []*models.FolderAssignment
	for _, id := range userIDs {
		out = append(out, &models.FolderAssignment{FolderPath: folderPath, UserID: id})
	}
	return out, nil
}

func (f *fakeAssignmentService) ListAll(ctx context.Context) ([]*models.FolderAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentService) ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentService) ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	return nil, nil
}

func (f *fakeAssignmentService) Mine(ctx context.Context, principal *models.User) (*services.MyFolders, error) {
	if f.mine != nil {
		return f.mine, nil
	}
	return &services.MyFolders{Assignments: []*models.FolderAssignment{}}, nil
}

func (f *fakeAssignmentService) Remove(ctx context.Context, id int64) error { return nil }

func (f *fakeAssignmentService) RemoveByFolderUser(ctx context.Context, folderPath string, userID int64) error {
	return nil
}

// --- fixture ---

func newTestServer(t *testing.T) (*Server, *fakeUserService, *fakeFileService, *fakeListingService, *fakeShareService, *fakeBlacklist) {
	t.Helper()

	users := &fakeUserService{principals: map[string]*models.User{}}
	files := &fakeFileService{files: map[int64]*models.File{}}
	listing := &fakeListingService{}
	shares := &fakeShareService{}
	blocked := newFakeBlacklist()

	cfg := &config.Config{EndpointAddrHTTP: ":0", SecretKey: testSecret}
	svc := &Services{
		Users:       users,
		Roles:       &fakeRoleService{},
		Listing:     listing,
		Files:       files,
		Shares:      shares,
		Assignments: &fakeAssignmentService{},
	}
	return NewServer(cfg, svc, blocked, discardLogger()), users, files, listing, shares, blocked
}
