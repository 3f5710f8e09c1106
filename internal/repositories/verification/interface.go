package verification

import "context"

// Repository stores the singleton verification record as a property bag.
// It is written once at store creation and read-only afterwards.
type Repository interface {
	// Get returns the value for one property, or "" with found=false when
	// the property does not exist.
	Get(ctx context.Context, name string) (value string, found bool, err error)

	// Set writes one property, replacing any previous value.
	Set(ctx context.Context, name, value string) error

	// GetAll returns every stored property.
	GetAll(ctx context.Context) (map[string]string, error)
}
