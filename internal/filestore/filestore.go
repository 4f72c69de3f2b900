// Package filestore implements the JSON file backend: the whole table is one
// JSON object whose keys are storage keys, rewritten atomically on every save.
package filestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store is a types.Backend backed by a single JSON document.
type Store struct {
	path string
}

// New returns a Store for the file at path. The file is not touched until
// Save or Load.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the backing file and returns its records in file order.
// A missing file yields nil; an empty file yields an empty, non-nil slice.
// Each value must be a JSON object; numbers are kept as json.Number.
func (s *Store) Load() ([]types.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	records := []types.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	err = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: key %q: %v", types.ErrInvalidRecord, key, err)
		}
		if dataType != jsonparser.Object {
			return fmt.Errorf("%w: %s is a %s, not an object", types.ErrInvalidRecord, k, dataType)
		}
		rec, err := decodeObject(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", types.ErrInvalidRecord, k, err)
		}
		records = append(records, types.Record{Key: k, Data: rec})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return records, nil
}

// Save writes records as one JSON object, keys in slice order, using the
// temp-file, fsync, rename pattern so a failed write leaves the previous
// file intact.
func (s *Store) Save(records []types.Record) error {
	var buf bytes.Buffer
	if err := encode(&buf, records); err != nil {
		return err
	}
	return writeAtomic(s.path, buf.Bytes())
}

// Close implements types.Backend. A file store holds no open resources.
func (s *Store) Close() error { return nil }

func decodeObject(value []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// encode writes records as a two-space indented JSON object. Keys are
// written in record order, which encoding/json cannot do for a map.
func encode(buf *bytes.Buffer, records []types.Record) error {
	if len(records) == 0 {
		buf.WriteString("{}\n")
		return nil
	}
	buf.WriteString("{\n")
	for i, rec := range records {
		key, err := json.Marshal(rec.Key)
		if err != nil {
			return fmt.Errorf("encoding key %s: %w", rec.Key, err)
		}
		value, err := json.MarshalIndent(rec.Data, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.Key, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(records)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return nil
}

// writeAtomic replaces path with data using a temp file in the same
// directory, fsync, then rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing records: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
