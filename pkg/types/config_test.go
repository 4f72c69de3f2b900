package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataFile: "file.json"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataFile: "file.json"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "empty data file returns ErrDataFileEmpty",
			config:  Config{Backend: BackendJSON},
			wantErr: ErrDataFileEmpty,
		},
		{
			name:    "valid json config",
			config:  Config{Backend: "json", DataFile: "file.json"},
			wantErr: nil,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataFile: "hbnb.db"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultFileName(t *testing.T) {
	if got := DefaultFileName(BackendJSON); got != DefaultDataFile {
		t.Errorf("json default = %q, want %q", got, DefaultDataFile)
	}
	if got := DefaultFileName(BackendSQLite); got != DefaultSQLiteFile {
		t.Errorf("sqlite default = %q, want %q", got, DefaultSQLiteFile)
	}
}
