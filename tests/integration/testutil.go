// Package integration runs the hbnb binary end to end against isolated
// config and data directories.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// hbnbBin is the path to the built hbnb binary.
	hbnbBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv is an isolated config directory and data file for one test.
type TestEnv struct {
	t        *testing.T
	TempDir  string
	Config   string
	DataFile string
	Backend  string
}

// NewTestEnv creates a JSON-backed test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return newTestEnv(t, "json", "file.json")
}

// NewSQLiteTestEnv creates a SQLite-backed test environment.
func NewSQLiteTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return newTestEnv(t, "sqlite", "hbnb.db")
}

func newTestEnv(t *testing.T, backend, dataName string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build hbnb: %v", buildErr)
	}
	if hbnbBin == "" {
		t.Fatal("hbnb binary not built (hbnbBin is empty)")
	}

	tempDir := t.TempDir()
	return &TestEnv{
		t:        t,
		TempDir:  tempDir,
		Config:   filepath.Join(tempDir, "config"),
		DataFile: filepath.Join(tempDir, dataName),
		Backend:  backend,
	}
}

// CmdResult holds the result of an hbnb execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Lines returns stdout split into lines without the trailing newline.
func (r CmdResult) Lines() []string {
	out := strings.TrimRight(r.Stdout, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Run executes hbnb with args, feeding stdin to the process. The working
// directory is the environment's temp dir.
func (e *TestEnv) Run(stdin string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{
		"--config-dir", e.Config,
		"--data-file", e.DataFile,
		"--backend", e.Backend,
	}, args...)
	cmd := exec.Command(hbnbBin, allArgs...)
	cmd.Dir = e.TempDir
	cmd.Env = append(os.Environ(), "HBNB_CONFIG_DIR=", "HBNB_DATA_FILE=", "HBNB_LOG_LEVEL=")
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run hbnb: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes hbnb and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(stdin string, args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(stdin, args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("hbnb %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// Console pipes the given command lines into the interactive console.
func (e *TestEnv) Console(lines ...string) CmdResult {
	e.t.Helper()
	return e.MustRun(strings.Join(lines, "\n")+"\n", "console")
}

// ReadStore parses the JSON data file into key -> attribute maps.
func (e *TestEnv) ReadStore() map[string]map[string]any {
	e.t.Helper()
	data, err := os.ReadFile(e.DataFile)
	if err != nil {
		e.t.Fatalf("failed to read file %s: %v", e.DataFile, err)
	}
	var result map[string]map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		e.t.Fatalf("failed to parse JSON %s: %v", e.DataFile, err)
	}
	return result
}
