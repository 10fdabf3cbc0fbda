package sharelinks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, link *models.ShareLink) (*models.ShareLink, error) {
	query :=
		`INSERT INTO share_links (file_id, share_token, expires_at, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `
	err := r.db.QueryRowContext(ctx, query,
		link.FileID, link.ShareToken, link.ExpiresAt, link.CreatedBy).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return link, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.ShareLink, error) {
	query :=
		`SELECT id, file_id, share_token, expires_at, created_at, created_by FROM share_links
		 WHERE share_token = $1
		 `
	link := &models.ShareLink{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&link.ID, &link.FileID, &link.ShareToken, &link.ExpiresAt, &link.CreatedAt, &link.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return link, nil
}

func (r *PostgresRepository) DeleteForFile(ctx context.Context, fileID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM share_links WHERE file_id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
