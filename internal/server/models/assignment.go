package models

import "time"

// FolderAssignment grants a user read/write/delete on one exact folder path.
// Paths are stored canonical (leading "/", no trailing "/", root is "/").
// A grant on /a does not propagate to /a/b. There is no copy or share bit at
// folder scope; those capabilities come from roles only.
type FolderAssignment struct {
	ID         int64
	FolderPath string
	UserID     int64
	CanRead    bool
	CanWrite   bool
	CanDelete  bool
	AssignedBy *int64
	AssignedAt time.Time

	// Username is joined in on admin listings.
	Username string
}
