/*
Package storage implements the key-value layer behind search history.

Three backends satisfy the KV interface: SQLite (modernc.org/sqlite, a pure Go,
CGo-free implementation), Badger, and an in-memory map. The SQLite backend
degrades gracefully: if the database cannot be opened every operation becomes
a no-op so searches keep working without history.

The default SQLite database is stored at ~/.catalog-search/history.db.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry is a single key-value pair returned by List.
type Entry struct {
	Key   string
	Value []byte
}

// KV defines the operations the history store needs from a backend.
type KV interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every entry whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// DefaultDir returns ~/.catalog-search, where on-disk backends live.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".catalog-search"), nil
}

// Open creates a backend by name. path is the SQLite file or the Badger
// directory; empty means the default location under DefaultDir.
func Open(backend, path string) (KV, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil

	case BackendBadger:
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "badger")
		}
		return OpenBadger(path, false)

	case BackendSQLite, "":
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				// History is optional: run without it.
				return NewSQLiteDisabled(), nil
			}
			path = filepath.Join(dir, "history.db")
		}
		s := NewSQLite(path)
		// Init failures leave the store disabled; searches still work.
		_ = s.Init()
		return s, nil

	default:
		return nil, fmt.Errorf("unknown history backend %q (want sqlite, badger or memory)", backend)
	}
}
