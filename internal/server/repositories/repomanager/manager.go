package repomanager

import (
	"context"
	"database/sql"

	"github.com/avagyans/filegate/internal/dbx"
	"github.com/avagyans/filegate/internal/server/repositories/assignments"
	"github.com/avagyans/filegate/internal/server/repositories/files"
	"github.com/avagyans/filegate/internal/server/repositories/roles"
	"github.com/avagyans/filegate/internal/server/repositories/sharelinks"
	"github.com/avagyans/filegate/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, letting services run
// several repositories inside one transaction via dbx.WithTx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
	Files(db dbx.DBTX) files.Repository
	Assignments(db dbx.DBTX) assignments.Repository
	ShareLinks(db dbx.DBTX) sharelinks.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
