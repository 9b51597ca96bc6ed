package types

import "errors"

// Archive stores evolution runs and their champions. Callers attach to a
// backend, access tables by name, and detach when done.
type Archive interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Archive to the backend described by config,
	// creating DataDir if needed. Returns ErrAlreadyAttached if called while
	// attached.
	Attach(config Config) error

	// Detach releases backend resources. Multiple calls succeed. After
	// Detach, operations on tables return ErrArchiveDetached.
	Detach() error
}

// Archive lifecycle errors.
var (
	ErrArchiveDetached = errors.New("archive is detached")
	ErrAlreadyAttached = errors.New("archive is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
