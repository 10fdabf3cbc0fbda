// Package storage declares the object-store gateway consumed by the
// services layer. Implementations hide the concrete backend and never let
// raw transport errors cross this boundary.
package storage

import (
	"context"
	"time"
)

// Delimiter is the pseudo-hierarchy separator used for single-level listings.
const Delimiter = "/"

// MaxUploadBytes caps presigned uploads at 5 GiB, enforced server-side as a
// presigned-POST condition so clients cannot exceed it after issuance.
const MaxUploadBytes = 5 * 1024 * 1024 * 1024

// Object is one listing entry. Exactly one of Key or Prefix is set:
// object rows carry Key; common-prefix (sub-folder) rows carry Prefix.
type Object struct {
	Key          string
	Prefix       string
	Size         *int64
	LastModified *time.Time
}

// IsPrefix reports whether the entry is a common-prefix (folder) row.
func (o Object) IsPrefix() bool { return o.Prefix != "" && o.Key == "" }

// UploadURL is a presigned-POST target. Fields must be included verbatim in
// the multipart form the client sends.
type UploadURL struct {
	URL    string
	Fields map[string]string
}

// DeleteResult reports the outcome of one key in a bulk delete.
type DeleteResult struct {
	Key string
	Err error
}

// Gateway is the abstract object-storage interface from the bucket's point
// of view: list, presign, copy, delete, and folder-marker creation.
type Gateway interface {
	// List returns a single level of the namespace under prefix when
	// delimiter is non-empty, or every key under prefix when it is empty.
	List(ctx context.Context, prefix, delimiter string) ([]Object, error)

	// PresignUpload returns a presigned POST constrained to the pinned
	// content type and MaxUploadBytes.
	PresignUpload(ctx context.Context, key, contentType string) (*UploadURL, error)

	// PresignDownload returns a time-limited GET URL for the key.
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)

	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error

	// DeleteMany deletes the keys in one call and reports per-key results.
	DeleteMany(ctx context.Context, keys []string) ([]DeleteResult, error)

	// PutMarker writes a zero-byte object, making an otherwise-empty
	// prefix visible as a folder.
	PutMarker(ctx context.Context, key string) error
}
