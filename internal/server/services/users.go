package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/server/auth"
	"github.com/avagyans/filegate/internal/server/config"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
)

// UserService handles authentication and user administration:
// - Authenticate: verify credentials and mint an access token
// - GetPrincipal: load a user with roles and folder grants for request handling
// - Create/Update/List: admin surfaces
// - EnsureAdmin: bootstrap the initial admin account
type UserService struct {
	db                          *sql.DB
	repos                       repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repos:                       repos,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Authenticate checks the password and activity flag and returns a signed
// access token. Unknown users and wrong passwords are indistinguishable to
// the caller; inactive users get a distinct error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return "", common.ErrorUnauthorized
	}
	if !user.IsActive {
		return "", common.ErrUserInactive
	}

	token, err := auth.GenerateToken(user.Username, uuid.New().String(), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// GetPrincipal loads the user together with its roles and folder grants so
// the permission resolver can run without further queries.
func (s *UserService) GetPrincipal(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	roles, err := s.repos.Roles(s.db).ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	grants, err := s.repos.Assignments(s.db).ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Assignments = make([]models.FolderAssignment, 0, len(grants))
	for _, g := range grants {
		user.Assignments = append(user.Assignments, *g)
	}
	return user, nil
}

// Create adds a user. Duplicate usernames answer with common.ErrorConflict.
func (s *UserService) Create(ctx context.Context, username, email, password string, isActive, isAdmin bool, roleIDs []int64, createdBy *int64) (*models.User, error) {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repos.Users(tx)
		u, err := repoTx.Create(ctx, &models.User{
			Username:       username,
			Email:          email,
			HashedPassword: hash,
			IsActive:       isActive,
			IsAdmin:        isAdmin,
			CreatedBy:      createdBy,
		})
		if err != nil {
			return err
		}
		if len(roleIDs) > 0 {
			if err := repoTx.SetRoles(ctx, u.ID, roleIDs); err != nil {
				return err
			}
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update changes a user's flags and, when roleIDs is non-nil, replaces its
// role set in the same transaction.
func (s *UserService) Update(ctx context.Context, id int64, email string, isActive, isAdmin bool, roleIDs []int64) (*models.User, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repos.Users(tx)
		if err := repoTx.Update(ctx, &models.User{ID: id, Email: email, IsActive: isActive, IsAdmin: isAdmin}); err != nil {
			return err
		}
		if roleIDs != nil {
			return repoTx.SetRoles(ctx, id, roleIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repos.Users(s.db).List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// An existing account is left untouched, password included.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	repo := s.repos.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	_, err = repo.Create(ctx, &models.User{
		Username:       username,
		HashedPassword: hash,
		IsActive:       true,
		IsAdmin:        true,
	})
	return err
}
