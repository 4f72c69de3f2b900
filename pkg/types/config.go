package types

import "errors"

// Config holds backend selection and the location of the backing data.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataFile string `json:"data_file" yaml:"data_file"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultDataFile is the backing file name used when none is configured.
const DefaultDataFile = "file.json"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataFileEmpty  = errors.New("data file must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DataFile == "" {
		return ErrDataFileEmpty
	}
	return nil
}

// DefaultSQLiteFile is the database file name used by the sqlite backend
// when none is configured.
const DefaultSQLiteFile = "hbnb.db"

// DefaultFileName returns the default data file name for backend.
func DefaultFileName(backend string) string {
	if backend == BackendSQLite {
		return DefaultSQLiteFile
	}
	return DefaultDataFile
}
