package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/pathx"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
	"github.com/avagyans/filegate/internal/server/storage"
)

// DownloadURLExpiry is the lifetime of presigned download URLs issued on the
// regular (non-share) read path.
const DownloadURLExpiry = 1 * time.Hour

// FileService drives the upload/download/copy/delete lifecycle. Metadata and
// object-store writes are not transactional with each other; deletes hit the
// store first so a failure leaves an orphaned metadata row (tolerated by the
// listing) rather than an orphaned object.
type FileService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	store storage.Gateway
}

func NewFileService(db *sql.DB, repos repomanager.RepositoryManager, store storage.Gateway) *FileService {
	return &FileService{db: db, repos: repos, store: store}
}

// IssueUpload presigns an upload for filename inside folderPath and records a
// pending metadata row. The URL is presigned before the row is written so a
// storage failure cannot leave metadata pointing at a key that was never
// issued.
func (s *FileService) IssueUpload(ctx context.Context, owner *models.User, folderPath, filename, contentType string) (*models.File, *storage.UploadURL, error) {
	folder := pathx.Normalize(folderPath)
	key := pathx.Key(folder, filename)

	upload, err := s.store.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, nil, err
	}

	file := &models.File{
		Filename:     filename,
		S3Key:        key,
		FolderPath:   folder,
		UploadStatus: models.UploadStatusPending,
	}
	if contentType != "" {
		file.ContentType = &contentType
	}
	if owner != nil {
		file.OwnerID = &owner.ID
	}

	file, err = s.repos.Files(s.db).Create(ctx, file)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating file record: %w", err)
	}
	return file, upload, nil
}

// CompleteUpload re-lists the store for the file's key and, when the object
// is there, records its size and flips the row to complete. A missing object
// is not an error: the row simply stays pending.
func (s *FileService) CompleteUpload(ctx context.Context, id int64) (*models.File, error) {
	repo := s.repos.Files(s.db)

	file, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	objects, err := s.store.List(ctx, file.S3Key, "")
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if obj.Key != file.S3Key || obj.Size == nil {
			continue
		}
		if err := repo.MarkComplete(ctx, file.ID, *obj.Size); err != nil {
			return nil, err
		}
		file.FileSize = obj.Size
		file.UploadStatus = models.UploadStatusComplete
		break
	}
	return file, nil
}

// Get returns the metadata row. Handlers use it to scope permission checks
// to the file's folder before acting.
func (s *FileService) Get(ctx context.Context, id int64) (*models.File, error) {
	return s.repos.Files(s.db).GetByID(ctx, id)
}

// DownloadByID presigns a download URL for a known file.
func (s *FileService) DownloadByID(ctx context.Context, id int64) (string, error) {
	file, err := s.repos.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignDownload(ctx, file.S3Key, DownloadURLExpiry)
}

// DownloadByKey presigns a download URL for a raw object key, metadata or not.
func (s *FileService) DownloadByKey(ctx context.Context, key string) (string, error) {
	return s.store.PresignDownload(ctx, key, DownloadURLExpiry)
}

// Copy duplicates a file's object under the destination folder and records a
// new metadata row owned by the acting principal.
func (s *FileService) Copy(ctx context.Context, principal *models.User, id int64, dstFolderPath string) (*models.File, error) {
	repo := s.repos.Files(s.db)

	src, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dstFolder := pathx.Normalize(dstFolderPath)
	dstKey := pathx.Key(dstFolder, src.Filename)

	if err := s.store.Copy(ctx, src.S3Key, dstKey); err != nil {
		return nil, err
	}

	copied := &models.File{
		Filename:     src.Filename,
		S3Key:        dstKey,
		FileSize:     src.FileSize,
		ContentType:  src.ContentType,
		FolderPath:   dstFolder,
		UploadStatus: models.UploadStatusComplete,
	}
	if principal != nil {
		copied.OwnerID = &principal.ID
	}
	copied, err = repo.Create(ctx, copied)
	if err != nil {
		return nil, fmt.Errorf("error creating file record: %w", err)
	}
	return copied, nil
}

// DeleteByID removes the object and then the metadata row together with its
// share links.
func (s *FileService) DeleteByID(ctx context.Context, id int64) error {
	file, err := s.repos.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.S3Key); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.ShareLinks(tx).DeleteForFile(ctx, file.ID); err != nil {
			return err
		}
		return s.repos.Files(tx).Delete(ctx, file.ID)
	})
}

// DeleteByKey removes a raw key from the store and clears any metadata row
// that references it. Externally-added objects have no row; that is fine.
func (s *FileService) DeleteByKey(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	return s.repos.Files(s.db).DeleteByKey(ctx, key)
}

// BulkDeleteResult reports the outcome of one file in a bulk delete.
type BulkDeleteResult struct {
	ID  int64
	Key string
	Err error
}

// BulkDelete deletes the objects in one store call and then drops the
// metadata rows of the keys that were actually removed. Ids with no metadata
// row are skipped silently; when none of the ids match, ErrorNotFound.
func (s *FileService) BulkDelete(ctx context.Context, ids []int64) ([]BulkDeleteResult, error) {
	repo := s.repos.Files(s.db)

	rows, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}

	byKey := make(map[string]*models.File, len(rows))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		byKey[row.S3Key] = row
		keys = append(keys, row.S3Key)
	}

	deleted, err := s.store.DeleteMany(ctx, keys)
	if err != nil {
		return nil, err
	}

	var results []BulkDeleteResult
	for _, d := range deleted {
		row, ok := byKey[d.Key]
		if !ok {
			continue
		}
		res := BulkDeleteResult{ID: row.ID, Key: d.Key, Err: d.Err}
		if d.Err == nil {
			res.Err = repo.DeleteByKey(ctx, d.Key)
		}
		results = append(results, res)
	}
	return results, nil
}

// CreateFolder makes an empty folder visible by writing a zero-byte ".keep"
// marker under its prefix. The listing hides the marker itself.
func (s *FileService) CreateFolder(ctx context.Context, parentPath, name string) (string, error) {
	folder := pathx.Join(pathx.Normalize(parentPath), name)
	key := pathx.Prefix(folder) + ".keep"
	if err := s.store.PutMarker(ctx, key); err != nil {
		return "", err
	}
	return folder, nil
}
