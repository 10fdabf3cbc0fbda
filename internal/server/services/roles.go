package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
)

// RoleService manages the global capability bundles users are granted
// through membership.
type RoleService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewRoleService(db *sql.DB, repos repomanager.RepositoryManager) *RoleService {
	return &RoleService{db: db, repos: repos}
}

// Create adds a role. Duplicate names answer with common.ErrorConflict.
func (s *RoleService) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	repo := s.repos.Roles(s.db)

	if _, err := repo.GetByName(ctx, role.Name); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	return repo.Create(ctx, role)
}

func (s *RoleService) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	return s.repos.Roles(s.db).GetByID(ctx, id)
}

func (s *RoleService) List(ctx context.Context) ([]*models.Role, error) {
	return s.repos.Roles(s.db).List(ctx)
}

func (s *RoleService) Update(ctx context.Context, role *models.Role) (*models.Role, error) {
	repo := s.repos.Roles(s.db)
	if err := repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, role.ID)
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	return s.repos.Roles(s.db).Delete(ctx, id)
}
