package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Cache is the storage contract for conversion results.
type Cache interface {
	// Get returns the payload stored under key. The bool reports
	// whether the key was present at all; a present key may hold an
	// empty payload.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores payload under key, replacing any previous value.
	Set(ctx context.Context, key string, payload []byte) error

	// Close releases backend resources.
	Close() error
}

// NewKey fingerprints a URL and output variant into a cache key. The
// key is a pure function of its inputs: hex-encoded SHA-256 of the URL
// plus the variant tag, so distinct variants of one URL never collide
// and equal URLs always map to the same entry.
func NewKey(url, variant string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + ":" + variant
}

// StorageError represents a cache backend failure.
type StorageError struct {
	// Backend is the backend name ("memory", "sqlite", "redis")
	Backend string

	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("cache %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a StorageError for the given backend and
// operation.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}
