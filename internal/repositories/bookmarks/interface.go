package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/captlog/internal/models"
)

// Repository describes persistence operations for bookmarks. Display text
// is handed over and returned as plain text; the storage encoding is an
// implementation detail.
type Repository interface {
	// Insert stores a new bookmark row.
	Insert(ctx context.Context, b *models.Bookmark) error

	// ListAll returns all bookmarks ordered by display text, ascending.
	ListAll(ctx context.Context) ([]models.Bookmark, error)

	// DeleteByID removes one bookmark. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByEntryID removes every bookmark referencing the given entry.
	DeleteByEntryID(ctx context.Context, entryID string) error
}
