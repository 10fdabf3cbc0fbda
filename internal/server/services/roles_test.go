package services

import (
	"context"
	"errors"
	"testing"

	"github.com/avagyans/filegate/internal/common"
	"github.com/avagyans/filegate/internal/server/models"
)

func TestRoleCreate_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRoleService(db, rm)

	role, err := s.Create(context.Background(), &models.Role{Name: "Auditor", CanRead: true})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if role.ID == 0 || !role.CanRead {
		t.Fatalf("unexpected role: %+v", role)
	}
}

func TestRoleCreate_NameConflict(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.roles.rows = []*models.Role{{ID: 1, Name: "Viewer"}}
	s := NewRoleService(db, rm)

	_, err := s.Create(context.Background(), &models.Role{Name: "Viewer"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func TestRoleUpdate_RoundTrip(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.roles.rows = []*models.Role{{ID: 1, Name: "Viewer", CanRead: true}}
	s := NewRoleService(db, rm)

	updated, err := s.Update(context.Background(), &models.Role{ID: 1, Name: "Viewer", CanRead: true, CanShare: true})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.CanShare {
		t.Fatalf("flags not updated: %+v", updated)
	}
}

func TestRoleDelete_Unknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewRoleService(db, rm)

	if err := s.Delete(context.Background(), 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
