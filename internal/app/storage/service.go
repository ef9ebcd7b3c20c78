/*
Package storage persists the small amount of client state that must survive restarts:
the session token and the theme preference.

Several backends implement the same Store interface: a local SQLite database (default),
a JSON file, an S3-compatible bucket for preferences that roam between machines, and
an in-memory map for tests and throwaway sessions.
*/
package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

// Backend names accepted by NewStore.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// ServiceConfig holds the configuration required to open a Store.
type ServiceConfig struct {
	Backend  string
	StateDir string

	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string
}

// Store is a string key/value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the store.
	Close() error
}

// NewStore is the factory function for Store.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStore(ctx context.Context, cfg ServiceConfig) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return newSQLiteStore(filepath.Join(cfg.StateDir, "state.db"))
	case BackendFile:
		return newFileStore(filepath.Join(cfg.StateDir, "state.json"))
	case BackendS3:
		return newS3Client(ctx, cfg)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
