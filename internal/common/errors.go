// Package common defines shared constants and sentinel errors used across
// captlog components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage location errors (directory cannot be created, store file
	// not readable/writable).
	ErrConfig = errors.New("storage location unusable")

	// Store content errors: missing verification or crypto-metadata
	// fields, unknown algorithm identifiers, digest mismatch on read.
	ErrCorruptStore = errors.New("store is corrupt")

	// The verifier decrypted but did not match the reference text.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Underlying read/write/commit failure.
	ErrStoreIO = errors.New("store i/o error")
)
