package assignments

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

const assignmentColumns = `a.id, a.folder_path, a.user_id, a.can_read, a.can_write, a.can_delete, a.assigned_by, a.assigned_at, u.username`

const assignmentJoin = ` FROM folder_assignments a LEFT JOIN users u ON u.id = a.user_id `

func (r *PostgresRepository) Insert(ctx context.Context, a *models.FolderAssignment) (*models.FolderAssignment, error) {
	query :=
		`INSERT INTO folder_assignments (folder_path, user_id, can_read, can_write, can_delete, assigned_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, assigned_at
		 `
	err := r.db.QueryRowContext(ctx, query,
		a.FolderPath, a.UserID, a.CanRead, a.CanWrite, a.CanDelete, a.AssignedBy).
		Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) UpdateFlags(ctx context.Context, id int64, canRead, canWrite, canDelete bool) error {
	query :=
		`UPDATE folder_assignments SET can_read = $2, can_write = $3, can_delete = $4
		 WHERE id = $1
		 `
	result, err := r.db.ExecContext(ctx, query, id, canRead, canWrite, canDelete)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByFolderUser(ctx context.Context, folderPath string, userID int64) (*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `WHERE a.folder_path = $1 AND a.user_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, folderPath, userID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `WHERE a.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.FolderAssignment, error) {
	item := &models.FolderAssignment{}
	var username sql.NullString
	err := row.Scan(&item.ID, &item.FolderPath, &item.UserID,
		&item.CanRead, &item.CanWrite, &item.CanDelete,
		&item.AssignedBy, &item.AssignedAt, &username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.Username = username.String
	return item, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `ORDER BY a.id`
	return r.list(ctx, query)
}

func (r *PostgresRepository) ListForFolder(ctx context.Context, folderPath string) ([]*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `WHERE a.folder_path = $1 ORDER BY a.id`
	return r.list(ctx, query, folderPath)
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `WHERE a.user_id = $1 ORDER BY a.id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListReadableForUser(ctx context.Context, userID int64) ([]*models.FolderAssignment, error) {
	query := `SELECT ` + assignmentColumns + assignmentJoin + `WHERE a.user_id = $1 AND a.can_read = TRUE ORDER BY a.id`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.FolderAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select assignments: %w", err)
	}
	defer rows.Close()

	var result []*models.FolderAssignment
	for rows.Next() {
		var item models.FolderAssignment
		var username sql.NullString
		if err := rows.Scan(&item.ID, &item.FolderPath, &item.UserID,
			&item.CanRead, &item.CanWrite, &item.CanDelete,
			&item.AssignedBy, &item.AssignedAt, &username); err != nil {
			return nil, err
		}
		item.Username = username.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM folder_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByFolderUser(ctx context.Context, folderPath string, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM folder_assignments WHERE folder_path = $1 AND user_id = $2`, folderPath, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
