package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/server/models"
	assignmentsrepo "github.com/avagyans/filegate/internal/server/repositories/assignments"
	filesrepo "github.com/avagyans/filegate/internal/server/repositories/files"
	rolesrepo "github.com/avagyans/filegate/internal/server/repositories/roles"
	sharelinksrepo "github.com/avagyans/filegate/internal/server/repositories/sharelinks"
	usersrepo "github.com/avagyans/filegate/internal/server/repositories/users"
	"github.com/avagyans/filegate/internal/server/storage"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories (in-memory) ---

type fakeFilesRepo struct {
	rows   []*models.File
	nextID int64

	createErr error
	listErr   error

	deletedKeys []string
	deletedIDs  []int64
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	file.ID = f.nextID
	file.UploadedAt = time.Now()
	f.rows = append(f.rows, file)
	return file, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id int64) (*models.File, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) GetByKey(ctx context.Context, key string) (*models.File, error) {
	for _, r := range f.rows {
		if r.S3Key == key {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) ListByFolder(ctx context.Context, folderPath string) ([]*models.File, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.File
	for _, r := range f.rows {
		if r.FolderPath == folderPath {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFilesRepo) ListByIDs(ctx context.Context, ids []int64) ([]*models.File, error) {
	var out []*models.File
	for _, id := range ids {
		for _, r := range f.rows {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeFilesRepo) MarkComplete(ctx context.Context, id int64, size int64) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.FileSize = &size
			r.UploadStatus = models.UploadStatusComplete
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id int64) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			f.deletedIDs = append(f.deletedIDs, id)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeFilesRepo) DeleteByKey(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	for i, r := range f.rows {
		if r.S3Key == key {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUsersRepo struct {
	rows   []*models.User
	nextID int64

	setRolesUser int64
	setRolesIDs  []int64
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.rows = append(f.rows, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, r := range f.rows {
		if r.Username == username {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) { return f.rows, nil }

func (f *fakeUsersRepo) ListByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		for _, r := range f.rows {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	for _, r := range f.rows {
		if r.ID == u.ID {
			r.Email = u.Email
			r.IsActive = u.IsActive
			r.IsAdmin = u.IsAdmin
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) SetRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	f.setRolesUser = userID
	f.setRolesIDs = roleIDs
	return nil
}

type fakeRolesRepo struct {
	rows    []*models.Role
	nextID  int64
	forUser map[int64][]models.Role
}

func (f *fakeRolesRepo) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	f.nextID++
	role.ID = f.nextID
	f.rows = append(f.rows, role)
	return role, nil
}

func (f *fakeRolesRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRolesRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	for _, r := range f.rows {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRolesRepo) List(ctx context.Context) ([]*models.Role, error) { return f.rows, nil }

func (f *fakeRolesRepo) ListForUser(ctx context.Context, userID int64) ([]models.Role, error) {
	return f.forUser[userID], nil
}

func (f *fakeRolesRepo) Update(ctx context.Context, role *models.Role) error {
	for _, r := range f.rows {
		if r.ID == role.ID {
			*r = *role
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRolesRepo) Delete(ctx context.Context, id int64) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeAssignmentsRepo struct {
	rows   []*models.FolderAssignment
	nextID int64
}

func (f *fakeAssignmentsRepo) Insert(ctx context.Context, a *models.FolderAssignment) (*models.FolderAssignment, error) {
	f.nextID++
	a.ID = f.nextID
	a.AssignedAt = time.Now()
	f.rows = append(f.rows, a)
	return a, nil
}

func (f *fakeAssignmentsRepo) UpdateFlags(ctx context.Context, id int64, canRead, canWrite, canDelete bool) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.CanRead = canRead
			r.CanWrite = canWrite
			r.CanDelete = canDelete
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAssignmentsRepo) GetByFolderUser(ctx context.Context, folderPath string, userID int64) (*models.FolderAssignment, error) {
	for _, r := range f.rows {
		if r.FolderPath == folderPath && r.UserID == userID {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAssignmentsRepo) GetByID(ctx context.Context, id int64) (*models.FolderAssignment, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAssignmentsRepo) ListAll(ctx context.Context) ([]*models.FolderAssignment, error) {
	return f.rows, nil
}

func (f *fakeAssignmentsRepo) ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error) {
	var out []*models.FolderAssignment
	for _, r := range f.rows {
		if r.FolderPath == folderPath {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAssignmentsRepo) ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	var out []*models.FolderAssignment
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAssignmentsRepo) ListReadableForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	var out []*models.FolderAssignment
	for _, r := range f.rows {
		if r.UserID == userID && r.CanRead {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAssignmentsRepo) Delete(ctx context.Context, id int64) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAssignmentsRepo) DeleteByFolderUser(ctx context.Context, folderPath string, userID int64) error {
	for i, r := range f.rows {
		if r.FolderPath == folderPath && r.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeShareLinksRepo struct {
	rows   []*models.ShareLink
	nextID int64

	deletedFileIDs []int64
}

func (f *fakeShareLinksRepo) Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	f.nextID++
	link.ID = f.nextID
	link.CreatedAt = time.Now()
	f.rows = append(f.rows, link)
	return link, nil
}

func (f *fakeShareLinksRepo) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	for _, r := range f.rows {
		if r.ShareToken == token {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeShareLinksRepo) DeleteForFile(ctx context.Context, fileID int64) error {
	f.deletedFileIDs = append(f.deletedFileIDs, fileID)
	return nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	users       *fakeUsersRepo
	roles       *fakeRolesRepo
	files       *fakeFilesRepo
	assignments *fakeAssignmentsRepo
	shareLinks  *fakeShareLinksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       &fakeUsersRepo{},
		roles:       &fakeRolesRepo{forUser: map[int64][]models.Role{}},
		files:       &fakeFilesRepo{},
		assignments: &fakeAssignmentsRepo{},
		shareLinks:  &fakeShareLinksRepo{},
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.users }
func (m *fakeRepoManager) Roles(db dbx.DBTX) rolesrepo.Repository             { return m.roles }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository             { return m.files }
func (m *fakeRepoManager) Assignments(db dbx.DBTX) assignmentsrepo.Repository { return m.assignments }
func (m *fakeRepoManager) ShareLinks(db dbx.DBTX) sharelinksrepo.Repository   { return m.shareLinks }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }

// --- fake object-store gateway ---

type fakeGateway struct {
	listOut  []storage.Object
	listErr  error
	listArgs [][2]string

	uploadOut  *storage.UploadURL
	uploadErr  error
	uploadKeys []string
	uploadCTs  []string

	downloadURL      string
	downloadErr      error
	downloadKeys     []string
	downloadExpiries []time.Duration

	copyErr  error
	copyArgs [][2]string

	deleteErr   error
	deletedKeys []string

	deleteManyOut []storage.DeleteResult
	deleteManyErr error

	markerErr  error
	markerKeys []string
}

func (g *fakeGateway) List(ctx context.Context, prefix, delimiter string) ([]storage.Object, error) {
	g.listArgs = append(g.listArgs, [2]string{prefix, delimiter})
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.listOut, nil
}

func (g *fakeGateway) PresignUpload(ctx context.Context, key, contentType string) (*storage.UploadURL, error) {
	if g.uploadErr != nil {
		return nil, g.uploadErr
	}
	g.uploadKeys = append(g.uploadKeys, key)
	g.uploadCTs = append(g.uploadCTs, contentType)
	if g.uploadOut != nil {
		return g.uploadOut, nil
	}
	return &storage.UploadURL{URL: "http://upload/" + key, Fields: map[string]string{"key": key}}, nil
}

func (g *fakeGateway) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if g.downloadErr != nil {
		return "", g.downloadErr
	}
	g.downloadKeys = append(g.downloadKeys, key)
	g.downloadExpiries = append(g.downloadExpiries, expiry)
	if g.downloadURL != "" {
		return g.downloadURL, nil
	}
	return "http://download/" + key, nil
}

func (g *fakeGateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	if g.copyErr != nil {
		return g.copyErr
	}
	g.copyArgs = append(g.copyArgs, [2]string{srcKey, dstKey})
	return nil
}

func (g *fakeGateway) Delete(ctx context.Context, key string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletedKeys = append(g.deletedKeys, key)
	return nil
}

func (g *fakeGateway) DeleteMany(ctx context.Context, keys []string) ([]storage.DeleteResult, error) {
	if g.deleteManyErr != nil {
		return nil, g.deleteManyErr
	}
	g.deletedKeys = append(g.deletedKeys, keys...)
	if g.deleteManyOut != nil {
		return g.deleteManyOut, nil
	}
	out := make([]storage.DeleteResult, 0, len(keys))
	for _, k := range keys {
		out = append(out, storage.DeleteResult{Key: k})
	}
	return out, nil
}

func (g *fakeGateway) PutMarker(ctx context.Context, key string) error {
	if g.markerErr != nil {
		return g.markerErr
	}
	g.markerKeys = append(g.markerKeys, key)
	return nil
}
