// Package services contains server-side business logic. This file implements
// ListingService, which reconciles the object-store namespace with the file
// metadata table into a single folder-aware view.
package services

import (
	"database/sql"
	"sort"
	"strings"

	"context"

	"github.com/avagyans/filegate/internal/pathx"
	"github.com/avagyans/filegate/internal/server/models"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
	"github.com/avagyans/filegate/internal/server/storage"
)

// ExternalOwner labels listing entries for objects present in the store but
// unknown to the metadata table.
const ExternalOwner = "External"

// ListingService merges single-level object-store listings with the files
// table. The two stores mutate independently with no transaction between
// them, so the merge tolerates divergence in both directions: objects with
// no metadata row and rows whose object is gone.
type ListingService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	store storage.Gateway
}

func NewListingService(db *sql.DB, repos repomanager.RepositoryManager, store storage.Gateway) *ListingService {
	return &ListingService{db: db, repos: repos, store: store}
}

// ListFolder returns one level of the namespace: sub-folders first, sorted by
// name, then files. Files found in the store come first in discovery order;
// metadata rows whose object did not show up in the listing are appended so a
// file is never dropped from the view just because a listing raced an upload.
func (s *ListingService) ListFolder(ctx context.Context, folderPath string) ([]models.ListEntry, error) {
	folder := pathx.Normalize(folderPath)
	prefix := pathx.Prefix(folder)

	metaRows, err := s.repos.Files(s.db).ListByFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	metaByKey := make(map[string]*models.File, len(metaRows))
	for _, row := range metaRows {
		metaByKey[row.S3Key] = row
	}

	objects, err := s.store.List(ctx, prefix, storage.Delimiter)
	if err != nil {
		return nil, err
	}

	folderEntries := collectFolders(objects, folder, prefix)

	seen := make(map[string]bool)
	var fileEntries []models.ListEntry
	for _, obj := range objects {
		if obj.IsPrefix() {
			continue
		}
		remainder, ok := fileRemainder(obj.Key, prefix)
		if !ok {
			continue
		}
		if meta, found := metaByKey[obj.Key]; found {
			seen[obj.Key] = true
			entry := entryFromMetadata(meta)
			// the live object size wins over whatever the row recorded
			if obj.Size != nil {
				entry.FileSize = obj.Size
			}
			fileEntries = append(fileEntries, entry)
			continue
		}
		fileEntries = append(fileEntries, models.ListEntry{
			Type:          models.EntryTypeFile,
			Filename:      remainder,
			FolderPath:    folder,
			S3Key:         obj.Key,
			FileSize:      obj.Size,
			UploadedAt:    obj.LastModified,
			OwnerUsername: ExternalOwner,
		})
	}

	// stale-metadata tail: rows whose key the listing did not return
	for _, row := range metaRows {
		if !seen[row.S3Key] {
			fileEntries = append(fileEntries, entryFromMetadata(row))
		}
	}

	return append(folderEntries, fileEntries...), nil
}

// ListFolders returns only the sub-folders of the given folder.
func (s *ListingService) ListFolders(ctx context.Context, folderPath string) ([]models.FolderInfo, error) {
	folder := pathx.Normalize(folderPath)
	prefix := pathx.Prefix(folder)

	objects, err := s.store.List(ctx, prefix, storage.Delimiter)
	if err != nil {
		return nil, err
	}

	result := []models.FolderInfo{}
	for _, entry := range collectFolders(objects, folder, prefix) {
		result = append(result, models.FolderInfo{Name: entry.Filename, Path: entry.FolderPath})
	}
	return result, nil
}

// collectFolders extracts the deduplicated, sorted sub-folder entries from a
// delimiter listing. A folder literally named "/" keeps a navigable path
// distinct from the root and displays under a reserved label.
func collectFolders(objects []storage.Object, folder, prefix string) []models.ListEntry {
	names := make(map[string]bool)
	for _, obj := range objects {
		if !obj.IsPrefix() {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Prefix, prefix), "/")
		names[name] = true
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	entries := make([]models.ListEntry, 0, len(sorted))
	for _, name := range sorted {
		display := name
		if name == "" {
			display = models.SlashFolderLabel
			name = "/"
		}
		entries = append(entries, models.ListEntry{
			Type:       models.EntryTypeFolder,
			Filename:   display,
			FolderPath: pathx.Join(folder, name),
		})
	}
	return entries
}

// fileRemainder strips the listing prefix from an object key and reports
// whether the key is a real file at this level. Folder markers (trailing
// slash), ".keep" sentinels and keys from deeper levels are skipped.
func fileRemainder(key, prefix string) (string, bool) {
	if strings.HasSuffix(key, "/") {
		return "", false
	}
	remainder := strings.TrimPrefix(key, prefix)
	if remainder == "" || remainder == ".keep" || strings.HasSuffix(key, "/.keep") {
		return "", false
	}
	// a remaining slash means the key belongs to a deeper level
	if strings.Contains(remainder, "/") {
		return "", false
	}
	return remainder, true
}

func entryFromMetadata(row *models.File) models.ListEntry {
	id := row.ID
	uploadedAt := row.UploadedAt
	return models.ListEntry{
		Type:          models.EntryTypeFile,
		Filename:      row.Filename,
		FolderPath:    row.FolderPath,
		ID:            &id,
		S3Key:         row.S3Key,
		FileSize:      row.FileSize,
		ContentType:   row.ContentType,
		UploadedAt:    &uploadedAt,
		OwnerUsername: row.OwnerUsername,
	}
}
