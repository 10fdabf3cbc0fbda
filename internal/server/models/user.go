// Package models defines server-side data models persisted in the database
// and the derived listing types produced by the namespace reconciler.
package models

import "time"

// User is an authenticated principal. Roles and Assignments are loaded
// alongside the row when the user acts as a request principal, so the
// permission resolver can work without further queries.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	// IsActive gates login; inactive users keep their rows but cannot act.
	IsActive bool
	// IsAdmin is an absolute override of all capability checks.
	IsAdmin   bool
	CreatedAt time.Time
	CreatedBy *int64

	Roles       []Role
	Assignments []FolderAssignment
}

// Role is a named, global bundle of capabilities. Roles are not
// folder-scoped; a role grant applies everywhere.
type Role struct {
	ID          int64
	Name        string
	Description string
	CanRead     bool
	CanWrite    bool
	CanCopy     bool
	CanDelete   bool
	CanShare    bool
}
