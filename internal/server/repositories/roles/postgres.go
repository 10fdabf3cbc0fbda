package roles

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

const roleColumns = `id, name, description, can_read, can_write, can_copy, can_delete, can_share`

func (r *PostgresRepository) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	query :=
		`INSERT INTO roles (name, description, can_read, can_write, can_copy, can_delete, can_share)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `
	err := r.db.QueryRowContext(ctx, query,
		role.Name, role.Description, role.CanRead, role.CanWrite, role.CanCopy, role.CanDelete, role.CanShare).
		Scan(&role.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return role, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Role, error) {
	role := &models.Role{}
	var desc sql.NullString
	err := row.Scan(&role.ID, &role.Name, &desc,
		&role.CanRead, &role.CanWrite, &role.CanCopy, &role.CanDelete, &role.CanShare)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	role.Description = desc.String
	return role, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select roles: %w", err)
	}
	defer rows.Close()

	var result []*models.Role
	for rows.Next() {
		var item models.Role
		var desc sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &desc,
			&item.CanRead, &item.CanWrite, &item.CanCopy, &item.CanDelete, &item.CanShare); err != nil {
			return nil, err
		}
		item.Description = desc.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.Role, error) {
	query :=
		`SELECT r.id, r.name, r.description, r.can_read, r.can_write, r.can_copy, r.can_delete, r.can_share
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1
		 `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select user roles: %w", err)
	}
	defer rows.Close()

	var result []models.Role
	for rows.Next() {
		var item models.Role
		var desc sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &desc,
			&item.CanRead, &item.CanWrite, &item.CanCopy, &item.CanDelete, &item.CanShare); err != nil {
			return nil, err
		}
		item.Description = desc.String
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, role *models.Role) error {
	query :=
		`UPDATE roles SET description = $2, can_read = $3, can_write = $4, can_copy = $5, can_delete = $6, can_share = $7
		 WHERE id = $1
		 `
	result, err := r.db.ExecContext(ctx, query,
		role.ID, role.Description, role.CanRead, role.CanWrite, role.CanCopy, role.CanDelete, role.CanShare)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
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
