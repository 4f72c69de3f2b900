package types

import "errors"

// Record is one persisted entity: its storage key and its kind-tagged field
// map (see ClassField).
type Record struct {
	Key  string
	Data map[string]any
}

// Backend moves records between the store and durable storage.
type Backend interface {
	// Save replaces all durable data with records, preserving their order.
	// On error the previous data must remain intact.
	Save(records []Record) error

	// Load returns the stored records in order. A backend with no data
	// returns no records and no error.
	Load() ([]Record, error)

	// Close releases backend resources. Idempotent.
	Close() error
}

// ErrBackendClosed is returned by backend operations after Close.
var ErrBackendClosed = errors.New("backend is closed")
