package types

import "errors"

// Store owns the authoritative in-memory table of live entities and moves it
// to and from a Backend. A Store is not safe for concurrent use.
type Store interface {
	// Create constructs an entity of the given kind, assigns a new ID and
	// creation timestamps, and registers it. Nothing is persisted.
	// Returns ErrUnknownKind if the kind is not registered.
	Create(kind string) (Entity, error)

	// Register inserts e under "<Kind>.<id>", overwriting any previous entry.
	Register(e Entity)

	// All returns every stored entity in table order.
	All() []Object

	// Find returns the entity stored under kind and id.
	// Returns ErrNotFound if no entity exists with that key.
	Find(kind, id string) (Entity, error)

	// Delete removes the entity stored under kind and id.
	// Returns ErrNotFound if no entity exists with that key.
	Delete(kind, id string) error

	// Count returns the number of stored entities whose kind is kind.
	Count(kind string) int

	// Save refreshes e's UpdatedAt and persists the whole table.
	Save(e Entity) error

	// Persist writes the whole table to the backend.
	Persist() error

	// Load replaces the table with the backend's records. A backend with no
	// data leaves the table unchanged. On error the table is not modified.
	Load() error

	// Close releases the backend.
	Close() error
}

// Store errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrUnknownKind   = errors.New("unknown kind")
	ErrInvalidValue  = errors.New("invalid value")
	ErrInvalidRecord = errors.New("invalid record")
)
