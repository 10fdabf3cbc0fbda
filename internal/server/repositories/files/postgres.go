package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/server/models"
)

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `f.id, f.filename, f.s3_key, f.file_size, f.content_type, f.folder_path, f.owner_id, f.uploaded_at, f.upload_status, u.username`

const fileJoin = ` FROM files f LEFT JOIN users u ON u.id = f.owner_id `

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (filename, s3_key, file_size, content_type, folder_path, owner_id, upload_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, uploaded_at
		 `
	err := r.db.QueryRowContext(ctx, query,
		file.Filename, file.S3Key, file.FileSize, file.ContentType,
		file.FolderPath, file.OwnerID, file.UploadStatus).
		Scan(&file.ID, &file.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + fileJoin + `WHERE f.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByKey(ctx context.Context, s3Key string) (*models.File, error) {
	query := `SELECT ` + fileColumns + fileJoin + `WHERE f.s3_key = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, s3Key))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.File, error) {
	item := &models.File{}
	var owner sql.NullString
	err := row.Scan(&item.ID, &item.Filename, &item.S3Key, &item.FileSize, &item.ContentType,
		&item.FolderPath, &item.OwnerID, &item.UploadedAt, &item.UploadStatus, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.OwnerUsername = owner.String
	return item, nil
}

func (r *PostgresRepository) ListByFolder(ctx context.Context, folderPath string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + fileJoin + `WHERE f.folder_path = $1 ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, query, folderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + fileColumns + fileJoin +
		fmt.Sprintf(`WHERE f.id IN (%s)`, strings.Join(placeholders, ", "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *PostgresRepository) scanAll(rows *sql.Rows) ([]*models.File, error) {
	var result []*models.File
	for rows.Next() {
		var item models.File
		var owner sql.NullString
		if err := rows.Scan(&item.ID, &item.Filename, &item.S3Key, &item.FileSize, &item.ContentType,
			&item.FolderPath, &item.OwnerID, &item.UploadedAt, &item.UploadStatus, &owner); err != nil {
			return nil, err
		}
		item.OwnerUsername = owner.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkComplete(ctx context.Context, id int64, size int64) error {
	query := `UPDATE files SET file_size = $2, upload_status = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, size, models.UploadStatusComplete)
	if err != nil {
		return fmt.Errorf("failed to mark complete: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByKey(ctx context.Context, s3Key string) error {
	// By-key delete tolerates a missing row: the object may exist in the
	// store without metadata.
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE s3_key = $1`, s3Key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
