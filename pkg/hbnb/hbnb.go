// Package hbnb provides the public API for opening an hbnb object store.
// It selects a backend from a types.Config and returns a loaded store while
// keeping the storage implementation internal.
//
// Example:
//
//	store, err := hbnb.Open(types.Config{
//	    Backend:  types.BackendJSON,
//	    DataFile: "file.json",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package hbnb

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hbnb/internal/filestore"
	"github.com/mesh-intelligence/hbnb/internal/sqlite"
	"github.com/mesh-intelligence/hbnb/internal/storage"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Version is the release version reported by the CLI.
const Version = "0.1.0"

type options struct {
	logger *zap.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger handed to the store and its backend.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open validates cfg, opens the configured backend, and loads any existing
// data into a new store. The caller must Close the store.
func Open(cfg types.Config, opts ...Option) (types.Store, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	backend, err := openBackend(cfg, o.logger)
	if err != nil {
		return nil, err
	}

	store := storage.New(backend, storage.WithLogger(o.logger))
	if err := store.Load(); err != nil {
		store.Close()
		return nil, fmt.Errorf("loading %s: %w", cfg.DataFile, err)
	}
	o.logger.Debug("store opened",
		zap.String("backend", cfg.Backend),
		zap.String("data_file", cfg.DataFile),
		zap.Int("objects", len(store.All())))
	return store, nil
}

func openBackend(cfg types.Config, logger *zap.Logger) (types.Backend, error) {
	switch cfg.Backend {
	case types.BackendJSON:
		return filestore.New(cfg.DataFile), nil
	case types.BackendSQLite:
		b, err := sqlite.Open(cfg.DataFile, sqlite.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return b, nil
	default:
		return nil, types.ErrBackendUnknown
	}
}
