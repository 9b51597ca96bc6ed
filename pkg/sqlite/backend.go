// Package sqlite provides the public API for the SQLite archive backend.
// It exposes the factory function while keeping the implementation
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/lander/internal/sqlite"
	"github.com/mesh-intelligence/lander/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	archive := sqlite.NewBackend()
//	err := archive.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".lander-db",
//	})
//	defer archive.Detach()
func NewBackend() types.Archive {
	return sqlite.NewBackend()
}
