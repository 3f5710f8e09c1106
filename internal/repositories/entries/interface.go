package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/captlog/internal/models"
)

// Repository describes persistence operations for log entries and their
// per-record crypto metadata. Entry Data at this layer is the stored
// representation (base64 ciphertext), not plaintext; nil means no content
// row is stored.
type Repository interface {
	// Insert stores a new entry row. Data is left NULL.
	Insert(ctx context.Context, e *models.LogEntry) error

	// ListAll returns all entries with timestamps populated and Data nil,
	// newest first by creation time.
	ListAll(ctx context.Context) ([]models.LogEntry, error)

	// GetByID returns one entry with its stored data, or
	// common.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.LogEntry, error)

	// Exists reports whether an entry row with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// UpdateData rewrites the entry's mtime and stored data (nil clears it).
	UpdateData(ctx context.Context, id string, mtime time.Time, data *string) error

	// DeleteByID removes the entry row and its crypto metadata. Deleting
	// an absent id is not an error.
	DeleteByID(ctx context.Context, id string) error

	// ReplaceCrypto discards any crypto metadata stored for the entry and
	// writes props in its place. An empty or nil props just discards.
	ReplaceCrypto(ctx context.Context, id string, props map[string]string) error

	// GetCrypto returns the entry's crypto metadata property bag.
	GetCrypto(ctx context.Context, id string) (map[string]string, error)
}
