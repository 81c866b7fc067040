// Package backend selects and builds the persistence backend the services
// run on: the SQLite repository or the in-memory store.
package backend

import (
	"context"

	"clube/internal/services"
)

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result carries the built store and its optional cleanup.
type Result struct {
	Store   services.Store
	Cleanup CleanupFunc
}

// Factory creates stores from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds what backend creation needs.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
}

// Type identifies a persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	return t == SQLiteBackend || t == MemoryBackend
}
