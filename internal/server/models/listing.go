package models

import "time"

// Listing entry kinds.
const (
	EntryTypeFile   = "file"
	EntryTypeFolder = "folder"
)

// SlashFolderLabel is the reserved display label for an object-store folder
// literally named "/". The path computation keeps such a folder
// distinguishable from the root folder itself; rendering is a client concern.
const SlashFolderLabel = "[slash]"

// ListEntry is one row of a reconciled folder listing. It is derived fresh
// per request and never persisted. Exactly one of the two shapes is used:
// folders carry Filename and FolderPath only; files carry the full set.
type ListEntry struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	// FolderPath is the entry's own navigable path for folders, and the
	// containing folder for files.
	FolderPath string `json:"folder_path"`

	// File-only fields. ID is nil for externally-added objects.
	ID            *int64     `json:"id"`
	S3Key         string     `json:"s3_key,omitempty"`
	FileSize      *int64     `json:"file_size"`
	ContentType   *string    `json:"content_type"`
	UploadedAt    *time.Time `json:"uploaded_at"`
	OwnerUsername string     `json:"owner_username,omitempty"`
}

// FolderInfo is a row of the folders-only listing.
type FolderInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
