// Package permissions implements the layered capability model:
// admin override, then global role grants, then folder-scoped assignments.
// Resolution is pure and never errors; callers turn a false into the
// appropriate rejection before touching any store.
package permissions

import (
	"github.com/avagyans/filegate/internal/pathx"
	"github.com/avagyans/filegate/internal/server/models"
)

// Capability is one of the five operations a principal can be granted.
type Capability string

const (
	CapRead   Capability = "read"
	CapWrite  Capability = "write"
	CapCopy   Capability = "copy"
	CapDelete Capability = "delete"
	CapShare  Capability = "share"
)

// Resolve reports whether the principal holds the capability anywhere.
// Precedence: admin flag, then role bits, then folder assignments
// (read/write/delete only; copy and share have no folder-scoped form).
func Resolve(principal *models.User, cap Capability) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin {
		return true
	}
	for _, role := range principal.Roles {
		if roleGrants(role, cap) {
			return true
		}
	}
	for _, a := range principal.Assignments {
		if assignmentGrants(a, cap) {
			return true
		}
	}
	return false
}

// ResolveInFolder is like Resolve, but the assignment branch only counts a
// grant on the exact normalized folder path. A grant on /a does not apply
// to /a/b.
func ResolveInFolder(principal *models.User, cap Capability, folderPath string) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin {
		return true
	}
	for _, role := range principal.Roles {
		if roleGrants(role, cap) {
			return true
		}
	}
	want := pathx.Normalize(folderPath)
	for _, a := range principal.Assignments {
		if pathx.Normalize(a.FolderPath) != want {
			continue
		}
		if assignmentGrants(a, cap) {
			return true
		}
	}
	return false
}

func roleGrants(r models.Role, cap Capability) bool {
	switch cap {
	case CapRead:
		return r.CanRead
	case CapWrite:
		return r.CanWrite
	case CapCopy:
		return r.CanCopy
	case CapDelete:
		return r.CanDelete
	case CapShare:
		return r.CanShare
	}
	return false
}

func assignmentGrants(a models.FolderAssignment, cap Capability) bool {
	switch cap {
	case CapRead:
		return a.CanRead
	case CapWrite:
		return a.CanWrite
	case CapDelete:
		return a.CanDelete
	}
	return false
}
