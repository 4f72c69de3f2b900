package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp layouts. Timestamps are written with exactly six fractional
// digits and no zone; parsing accepts a missing or shorter fraction.
const (
	TimeLayout      = "2006-01-02T15:04:05.000000"
	TimeParseLayout = "2006-01-02T15:04:05.999999"
)

// ClassField is the record field that carries the kind tag in persisted data.
const ClassField = "__class__"

// Identity field names shared by every kind.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Entity is implemented by every stored kind.
type Entity interface {
	// Kind returns the kind name, e.g. "Place".
	Kind() string

	// Base returns the identity fields and the extra attribute bag.
	Base() *BaseModel
}

// BaseModel holds the identity and audit fields present on every kind.
// Extra collects attributes that the kind does not declare.
type BaseModel struct {
	ID        string         `json:"id" mapstructure:"id"`
	CreatedAt time.Time      `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" mapstructure:"updated_at"`
	Extra     map[string]any `json:"-" mapstructure:",remain"`
}

// Kind implements Entity.
func (b *BaseModel) Kind() string { return KindBaseModel }

// Base implements Entity.
func (b *BaseModel) Base() *BaseModel { return b }

// Object pairs a stored entity with the key it is filed under.
type Object struct {
	Key    string
	Entity Entity
}

// Key builds the storage key "<kind>.<id>".
func Key(kind, id string) string {
	return kind + "." + id
}

// KeyOf returns the storage key for e.
func KeyOf(e Entity) string {
	return Key(e.Kind(), e.Base().ID)
}

// SplitKey splits a storage key on its first dot. ok is false when the key
// has no dot.
func SplitKey(key string) (kind, id string, ok bool) {
	return strings.Cut(key, ".")
}

// ToMap renders every field of e, declared and extra, as a JSON-compatible
// map. Timestamps use TimeLayout. Declared fields win over extra attributes
// of the same name.
func ToMap(e Entity) (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", e.Kind(), err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Kind(), err)
	}

	b := e.Base()
	for k, v := range b.Extra {
		if _, declared := m[k]; !declared {
			m[k] = v
		}
	}
	m[FieldCreatedAt] = b.CreatedAt.Format(TimeLayout)
	m[FieldUpdatedAt] = b.UpdatedAt.Format(TimeLayout)
	return m, nil
}

// Format returns the canonical string form "[<Kind>] (<id>) <fields>", where
// fields is the ToMap result encoded as JSON with sorted keys.
func Format(e Entity) (string, error) {
	m, err := ToMap(e)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("encode %s: %w", e.Kind(), err)
	}
	return fmt.Sprintf("[%s] (%s) %s", e.Kind(), e.Base().ID, bytes.TrimRight(buf.Bytes(), "\n")), nil
}
