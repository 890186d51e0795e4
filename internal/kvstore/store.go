// Package kvstore provides the synchronous key/value store the hub keeps its
// JSON snapshots in.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendDisk   = "disk"
	BackendMemory = "memory"
)

// ErrEmptyKey is returned when a key is blank.
var ErrEmptyKey = errors.New("kvstore: empty key")

// Store is a synchronous key to string store with no transactions and no
// expiry.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set replaces the value stored under key.
	Set(key, value string) error
	Close() error
}

// Open opens the backend named by backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		if err := ensureParent(path); err != nil {
			return nil, err
		}
		return NewSQLite(path)
	case BackendDisk:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		return NewDisk(path), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: %s, %s, %s)",
			backend, BackendSQLite, BackendDisk, BackendMemory)
	}
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}
