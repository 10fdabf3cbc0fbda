package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/pathx"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
)

// AssignmentFlags carries the three folder-scoped capability bits.
type AssignmentFlags struct {
	CanRead   bool
	CanWrite  bool
	CanDelete bool
}

// MyFolders is a principal's own view of its folder grants. Admins get the
// FullAccess short form instead of per-folder rows.
type MyFolders struct {
	FullAccess  bool
	Assignments []*models.FolderAssignment
}

// AssignmentService manages per-user folder grants. Paths are normalized on
// every entry point; a (folder, user) pair has at most one row, so
// re-assigning updates the existing row in place.
type AssignmentService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewAssignmentService(db *sql.DB, repos repomanager.RepositoryManager) *AssignmentService {
	return &AssignmentService{db: db, repos: repos}
}

// Upsert grants flags on folderPath to the user, overwriting the flags of an
// existing grant without touching its assigned_by/assigned_at. An unknown
// user id yields ErrorNotFound before any write.
func (s *AssignmentService) Upsert(ctx context.Context, folderPath string, userID int64, flags AssignmentFlags, assignerID *int64) (*models.FolderAssignment, error) {
	if _, err := s.repos.Users(s.db).GetByID(ctx, userID); err != nil {
		return nil, err
	}

	folder := pathx.Normalize(folderPath)
	repo := s.repos.Assignments(s.db)

	existing, err := repo.GetByFolderUser(ctx, folder, userID)
	if err == nil {
		if err := repo.UpdateFlags(ctx, existing.ID, flags.CanRead, flags.CanWrite, flags.CanDelete); err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, existing.ID)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return repo.Insert(ctx, &models.FolderAssignment{
		FolderPath: folder,
		UserID:     userID,
		CanRead:    flags.CanRead,
		CanWrite:   flags.CanWrite,
		CanDelete:  flags.CanDelete,
		AssignedBy: assignerID,
	})
}

// BulkUpsert applies the same grant to several users. Unknown user ids are
// skipped silently; the returned slice covers only the users that exist.
func (s *AssignmentService) BulkUpsert(ctx context.Context, folderPath string, userIDs []int64, flags AssignmentFlags, assignerID *int64) ([]*models.FolderAssignment, error) {
	var result []*models.FolderAssignment
	for _, userID := range userIDs {
		a, err := s.Upsert(ctx, folderPath, userID, flags, assignerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *AssignmentService) ListAll(ctx context.Context) ([]*models.FolderAssignment, error) {
	return s.repos.Assignments(s.db).ListAll(ctx)
}

func (s *AssignmentService) ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error) {
	return s.repos.Assignments(s.db).ListForFolder(ctx, pathx.Normalize(folderPath))
}

func (s *AssignmentService) ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	return s.repos.Assignments(s.db).ListForUser(ctx, userID)
}

// Mine returns the principal's readable grants, or the full-access short form
// for admins so clients need no per-folder entries.
func (s *AssignmentService) Mine(ctx context.Context, principal *models.User) (*MyFolders, error) {
	if principal.IsAdmin {
		return &MyFolders{FullAccess: true, Assignments: []*models.FolderAssignment{}}, nil
	}
	rows, err := s.repos.Assignments(s.db).ListReadableForUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.FolderAssignment{}
	}
	return &MyFolders{Assignments: rows}, nil
}

func (s *AssignmentService) Remove(ctx context.Context, id int64) error {
	return s.repos.Assignments(s.db).Delete(ctx, id)
}

func (s *AssignmentService) RemoveByFolderUser(ctx context.Context, folderPath string, userID int64) error {
	return s.repos.Assignments(s.db).DeleteByFolderUser(ctx, pathx.Normalize(folderPath), userID)
}
