// Package kvstore provides the durable key-value primitive that state
// stores persist into.
//
// The contract is deliberately small: string keys, raw byte values,
// synchronous writes. Reads of missing or unreadable data report
// not-found rather than failing, so callers can fall back to defaults.
package kvstore

import "errors"

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a synchronous string-keyed value store.
type Store interface {
	// Get retrieves the value for key. Returns ErrNotFound if the key
	// is absent or the underlying data cannot be read.
	Get(key string) ([]byte, error)

	// Set stores or replaces the value for key.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
