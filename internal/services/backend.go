// Package services implements the storage backend for captlog: the
// capability surface the presentation layer talks to, and its SQLite
// implementation composing key derivation, the cipher envelope and the
// repositories.
package services

import (
	"context"
	"os"

	"github.com/dmitrijs2005/captlog/internal/models"
)

// Backend is the capability set every storage backend provides. A backend
// is obtained from Open and holds the unlocked master key for the rest of
// the session. Alternative implementations (another cipher suite, another
// store engine) satisfy the same interface without changing callers.
//
// Contract:
//   - ListEntries returns entries newest first, content not loaded.
//   - GetEntry loads and verifies content; unknown ids are ErrNotFound.
//   - SaveEntry requires an existing id and replaces content, mtime and
//     crypto metadata atomically.
//   - DeleteEntry and DeleteBookmark are idempotent.
//   - NewBookmark expects the caller to hold a current entry; it does not
//     re-validate the entry id.
type Backend interface {
	ListEntries(ctx context.Context) ([]models.LogEntry, error)
	NewEntry(ctx context.Context) (*models.LogEntry, error)
	SaveEntry(ctx context.Context, e *models.LogEntry) error
	GetEntry(ctx context.Context, id string) (*models.LogEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	ListBookmarks(ctx context.Context) ([]models.Bookmark, error)
	NewBookmark(ctx context.Context, entryID, text string) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error

	Close() error
}

// IsNewStore reports whether no store exists yet at path, so callers can
// choose between a set-and-confirm passphrase flow and a plain confirm
// flow before calling Open.
func IsNewStore(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return true
	}
	return !fi.Mode().IsRegular()
}
