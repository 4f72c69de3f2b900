// Package sqlite implements the SQLite storage backend. It stores the same
// kind-tagged records as the JSON file backend, one row per entity, and
// replaces the whole table inside a single transaction on every save.
package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Backend implements types.Backend on a SQLite database file.
type Backend struct {
	mu     sync.Mutex
	path   string
	db     *sql.DB
	logger *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, opts ...Option) (*Backend, error) {
	b := &Backend{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// A single connection keeps the database file exclusively ours.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.logger.Debug("sqlite backend opened", zap.String("path", path))
	return b, nil
}

// Path returns the database file path.
func (b *Backend) Path() string { return b.path }

// Save implements types.Backend. The table is cleared and refilled in one
// transaction; on error the transaction is rolled back and the previous
// rows remain.
func (b *Backend) Save(records []types.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return types.ErrBackendClosed
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM objects"); err != nil {
		return fmt.Errorf("clearing objects: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO objects (key, kind, position, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		data, err := json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.Key, err)
		}
		kind, _ := rec.Data[types.ClassField].(string)
		if _, err := stmt.Exec(rec.Key, kind, i, string(data)); err != nil {
			return fmt.Errorf("inserting %s: %w", rec.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Load implements types.Backend. An empty table yields nil, the same as a
// missing JSON file.
func (b *Backend) Load() ([]types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil, types.ErrBackendClosed
	}

	rows, err := b.db.Query("SELECT key, data FROM objects ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(data)))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidRecord, key, err)
		}
		records = append(records, types.Record{Key: key, Data: m})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading objects: %w", err)
	}
	return records, nil
}

// Close implements types.Backend. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
