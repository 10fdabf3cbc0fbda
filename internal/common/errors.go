// Package common defines shared constants and sentinel errors used across
// Filegate components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorPermissionDenied = errors.New("permission denied")
	ErrorConflict         = errors.New("already exists")

	// Object-store gateway failures. Raw transport errors never cross the
	// gateway boundary; callers see this sentinel wrapped around a message.
	ErrorUpstreamStorage = errors.New("object storage failure")

	// Share-link lifecycle errors. Expired is distinct from not-found so the
	// edge can answer 410 instead of 404.
	ErrorExpired = errors.New("expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrUserInactive = errors.New("user is inactive")
)
