package storage

import "context"

//go:generate moq -out kvstore_mock.go . KVStore

// KVStore defines interface for the device-local persistent key-value store.
// Values are opaque byte slices, atomicity is guaranteed per key only.
type KVStore interface {
	// Get retrieves a value by key
	// Returns ErrKeyNotFound if key doesn't exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or replaces the value under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key
	// Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources
	Close() error
}
