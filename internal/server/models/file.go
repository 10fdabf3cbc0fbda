package models

import "time"

// Upload lifecycle states for a File row. A row is created pending when the
// upload URL is issued; it turns complete once the object's size has been
// observed in the store. Rows stuck in pending are never garbage-collected.
const (
	UploadStatusPending  = "pending"
	UploadStatusComplete = "complete"
)

// File is the metadata record for a known upload. The object store may hold
// keys with no File row (externally added) and File rows may outlive their
// objects (deleted externally); both are tolerated, not corruption.
type File struct {
	ID       int64
	Filename string
	// S3Key uniquely identifies the object in the bucket.
	S3Key       string
	FileSize    *int64
	ContentType *string
	// FolderPath is the canonical folder the file lives in ("/" for root).
	FolderPath   string
	OwnerID      *int64
	UploadedAt   time.Time
	UploadStatus string

	// OwnerUsername is joined in on reads; not a column of the files table.
	OwnerUsername string
}

// ShareLink is a persisted, token-backed share. Resolving the token checks
// ExpiresAt and then mints a fresh short-lived presigned URL; the stored row
// never carries a URL itself.
type ShareLink struct {
	ID         int64
	FileID     int64
	ShareToken string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	CreatedBy  *int64
}
