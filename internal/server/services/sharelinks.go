package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
	"github.com/avagyans/filegate/internal/server/storage"
)

const (
	// MaxDirectShareHours caps the expiry of directly presigned share URLs.
	MaxDirectShareHours = 12

	// shareTokenURLExpiry is the lifetime of the fresh URL minted whenever a
	// stored share token resolves. The row's own expires_at is checked first;
	// the shorter of the two effectively wins.
	shareTokenURLExpiry = 1 * time.Hour

	shareTokenBytes = 32
)

// ShareService issues shareable download URLs. Two mechanisms coexist: a
// direct presign whose URL is the only durable state, and a persisted token
// that mints a fresh URL on every resolution.
type ShareService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	store storage.Gateway
}

func NewShareService(db *sql.DB, repos repomanager.RepositoryManager, store storage.Gateway) *ShareService {
	return &ShareService{db: db, repos: repos, store: store}
}

// DirectPresign returns a presigned download URL for the file, valid for the
// requested number of hours clamped to MaxDirectShareHours. Nothing is
// persisted; expiry lives in the URL signature.
func (s *ShareService) DirectPresign(ctx context.Context, fileID int64, expiresInHours int) (string, int, error) {
	if expiresInHours < 1 {
		expiresInHours = 1
	}
	if expiresInHours > MaxDirectShareHours {
		expiresInHours = MaxDirectShareHours
	}

	file, err := s.repos.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return "", 0, err
	}

	url, err := s.store.PresignDownload(ctx, file.S3Key, time.Duration(expiresInHours)*time.Hour)
	if err != nil {
		return "", 0, err
	}
	return url, expiresInHours, nil
}

// CreateLink persists a token-backed share for the file, expiring at the
// given time.
func (s *ShareService) CreateLink(ctx context.Context, principal *models.User, fileID int64, expiresAt time.Time) (*models.ShareLink, error) {
	if _, err := s.repos.Files(s.db).GetByID(ctx, fileID); err != nil {
		return nil, err
	}

	token, err := common.MakeRandHexString(shareTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating share token: %w", err)
	}

	link := &models.ShareLink{
		FileID:     fileID,
		ShareToken: token,
		ExpiresAt:  expiresAt,
	}
	if principal != nil {
		link.CreatedBy = &principal.ID
	}
	return s.repos.ShareLinks(s.db).Create(ctx, link)
}

// ResolveToken checks the stored expiry and, when the link is still live,
// mints a fresh short-lived download URL. Expired links answer with
// common.ErrorExpired, distinct from not-found.
func (s *ShareService) ResolveToken(ctx context.Context, token string) (string, *models.File, error) {
	link, err := s.repos.ShareLinks(s.db).GetByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if link.ExpiresAt.Before(time.Now()) {
		return "", nil, common.ErrorExpired
	}

	file, err := s.repos.Files(s.db).GetByID(ctx, link.FileID)
	if err != nil {
		return "", nil, err
	}

	url, err := s.store.PresignDownload(ctx, file.S3Key, shareTokenURLExpiry)
	if err != nil {
		return "", nil, err
	}
	return url, file, nil
}
