// Package storage implements the object store: an ordered in-memory table of
// entities keyed "<Kind>.<id>", persisted as a whole through a types.Backend.
//
// The engine dispatches on the kind tag of each persisted record when
// rebuilding entities, so a single backing document holds every kind.
package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hbnb/internal/schema"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Engine implements types.Store. It is not safe for concurrent use.
type Engine struct {
	registry *schema.Registry
	backend  types.Backend
	logger   *zap.Logger
	now      func() time.Time

	keys    []string
	objects map[string]types.Entity
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRegistry replaces the default kind registry.
func WithRegistry(r *schema.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns an empty Engine over backend. Call Load to read existing data.
func New(backend types.Backend, opts ...Option) *Engine {
	e := &Engine{
		registry: schema.Default(),
		backend:  backend,
		logger:   zap.NewNop(),
		now:      defaultNow,
		objects:  make(map[string]types.Entity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the kind registry the engine resolves kinds through.
func (e *Engine) Registry() *schema.Registry { return e.registry }

// Create implements types.Store.
func (e *Engine) Create(kind string) (types.Entity, error) {
	ctor, err := e.registry.Resolve(kind)
	if err != nil {
		return nil, err
	}
	ent := ctor()
	b := ent.Base()
	b.ID = generateUUID()
	b.CreatedAt = e.now()
	b.UpdatedAt = b.CreatedAt
	e.Register(ent)
	return ent, nil
}

// Register implements types.Store. Overwriting a key keeps its position.
func (e *Engine) Register(ent types.Entity) {
	key := types.KeyOf(ent)
	if _, ok := e.objects[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.objects[key] = ent
}

// All implements types.Store.
func (e *Engine) All() []types.Object {
	out := make([]types.Object, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, types.Object{Key: k, Entity: e.objects[k]})
	}
	return out
}

// Find implements types.Store.
func (e *Engine) Find(kind, id string) (types.Entity, error) {
	ent, ok := e.objects[types.Key(kind, id)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return ent, nil
}

// Delete implements types.Store.
func (e *Engine) Delete(kind, id string) error {
	key := types.Key(kind, id)
	if _, ok := e.objects[key]; !ok {
		return types.ErrNotFound
	}
	delete(e.objects, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Count implements types.Store. Entities are counted by their runtime kind,
// not their key prefix.
func (e *Engine) Count(kind string) int {
	n := 0
	for _, ent := range e.objects {
		if ent.Kind() == kind {
			n++
		}
	}
	return n
}

// Save implements types.Store.
func (e *Engine) Save(ent types.Entity) error {
	ent.Base().UpdatedAt = e.now()
	return e.Persist()
}

// Persist implements types.Store.
func (e *Engine) Persist() error {
	records := make([]types.Record, 0, len(e.keys))
	for _, k := range e.keys {
		data, err := types.ToMap(e.objects[k])
		if err != nil {
			return fmt.Errorf("serializing %s: %w", k, err)
		}
		data[types.ClassField] = e.objects[k].Kind()
		records = append(records, types.Record{Key: k, Data: data})
	}
	if err := e.backend.Save(records); err != nil {
		return fmt.Errorf("persisting %d objects: %w", len(records), err)
	}
	e.logger.Debug("persisted objects", zap.Int("count", len(records)))
	return nil
}

// Load implements types.Store. Every record is decoded before the table is
// replaced, so a failed load leaves the table as it was.
func (e *Engine) Load() error {
	records, err := e.backend.Load()
	if err != nil {
		return fmt.Errorf("loading objects: %w", err)
	}
	if records == nil {
		e.logger.Debug("no stored objects")
		return nil
	}

	keys := make([]string, 0, len(records))
	objects := make(map[string]types.Entity, len(records))
	for _, rec := range records {
		ent, err := e.decode(rec)
		if err != nil {
			return err
		}
		key := types.KeyOf(ent)
		if key != rec.Key {
			e.logger.Warn("stored key does not match kind tag and id",
				zap.String("stored_key", rec.Key),
				zap.String("key", key))
		}
		if _, ok := objects[key]; !ok {
			keys = append(keys, key)
		}
		objects[key] = ent
	}

	e.keys = keys
	e.objects = objects
	e.logger.Debug("loaded objects", zap.Int("count", len(keys)))
	return nil
}

// decode rebuilds one entity, dispatching on the record's kind tag.
func (e *Engine) decode(rec types.Record) (types.Entity, error) {
	tag, _ := rec.Data[types.ClassField].(string)
	if tag == "" {
		return nil, fmt.Errorf("%w: %s has no %s", types.ErrInvalidRecord, rec.Key, types.ClassField)
	}
	ent, err := e.registry.Decode(tag, rec.Data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.Key, err)
	}
	if ent.Base().ID == "" {
		if _, id, ok := types.SplitKey(rec.Key); ok {
			ent.Base().ID = id
		}
	}
	return ent, nil
}

// Close implements types.Store.
func (e *Engine) Close() error {
	if e.backend == nil {
		return nil
	}
	return e.backend.Close()
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
