package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func testDirs(t *testing.T) (configDir, dataFile string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HBNB_CONFIG_DIR", "")
	t.Setenv("HBNB_DATA_FILE", "")
	t.Setenv("HBNB_LOG_LEVEL", "")
	return filepath.Join(dir, "config"), filepath.Join(dir, "file.json")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hbnb v")
	assert.Contains(t, out, "module: "+modulePath)
}

func TestConsoleFromStdin(t *testing.T) {
	configDir, dataFile := testDirs(t)

	out, err := runCLI(t, "create State\ncount State\nquit\n",
		"--config-dir", configDir, "--data-file", dataFile, "console")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, "no prompt when stdin is not a terminal")
	assert.Len(t, lines[0], 36)
	assert.Equal(t, "1", lines[1])
	assert.FileExists(t, dataFile)
	assert.FileExists(t, filepath.Join(configDir, "config.yaml"))
}

func TestRootRunsConsole(t *testing.T) {
	configDir, dataFile := testDirs(t)

	out, err := runCLI(t, "all\n", "--config-dir", configDir, "--data-file", dataFile)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestExecPersistsAcrossRuns(t *testing.T) {
	configDir, dataFile := testDirs(t)
	common := []string{"--config-dir", configDir, "--data-file", dataFile}

	id, err := runCLI(t, "", append(common, "exec", "create", "Place")...)
	require.NoError(t, err)
	id = strings.TrimSpace(id)
	require.Len(t, id, 36)

	_, err = runCLI(t, "", append(common, "exec", "update", "Place", id, "number_rooms", "3")...)
	require.NoError(t, err)

	out, err := runCLI(t, "", append(common, "exec", "Place.count()")...)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = runCLI(t, "", append(common, "exec", "show", "Place", id)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"number_rooms":3`)
}

func TestExecValidationMessage(t *testing.T) {
	configDir, dataFile := testDirs(t)

	out, err := runCLI(t, "", "--config-dir", configDir, "--data-file", dataFile, "exec", "show", "User", "missing")
	require.NoError(t, err)
	assert.Equal(t, "** no instance found **\n", out)
}

func TestSQLiteBackendFlag(t *testing.T) {
	configDir, _ := testDirs(t)
	dbFile := filepath.Join(t.TempDir(), "hbnb.db")
	common := []string{"--config-dir", configDir, "--data-file", dbFile, "--backend", "sqlite"}

	_, err := runCLI(t, "", append(common, "exec", "create", "Amenity")...)
	require.NoError(t, err)

	out, err := runCLI(t, "", append(common, "exec", "count", "Amenity")...)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestConfigFileSelectsBackendAndDataFile(t *testing.T) {
	configDir, _ := testDirs(t)
	dataFile := filepath.Join(t.TempDir(), "from-config.json")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"),
		[]byte("backend: json\ndata_file: "+dataFile+"\nlog_level: error\n"), 0o644))

	_, err := runCLI(t, "", "--config-dir", configDir, "exec", "create", "Review")
	require.NoError(t, err)
	assert.FileExists(t, dataFile)
}

func TestUnknownBackendIsUserError(t *testing.T) {
	configDir, dataFile := testDirs(t)

	_, err := runCLI(t, "", "--config-dir", configDir, "--data-file", dataFile, "--backend", "mongo", "exec", "all")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestBadLogLevelIsUserError(t *testing.T) {
	configDir, dataFile := testDirs(t)
	t.Setenv("HBNB_LOG_LEVEL", "loud")

	_, err := runCLI(t, "", "--config-dir", configDir, "--data-file", dataFile, "exec", "all")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestCorruptDataFileIsSystemError(t *testing.T) {
	configDir, dataFile := testDirs(t)
	require.NoError(t, os.WriteFile(dataFile, []byte("not json"), 0o644))

	_, err := runCLI(t, "", "--config-dir", configDir, "--data-file", dataFile, "exec", "all")
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestInit(t *testing.T) {
	configDir, dataFile := testDirs(t)

	out, err := runCLI(t, "", "--config-dir", configDir, "--data-file", dataFile, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "hbnb initialized")

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.BackendJSON, cfg.Backend)
	assert.Equal(t, dataFile, cfg.DataFile)

	stored, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(stored))

	// A second init keeps existing data.
	_, err = runCLI(t, "", "--config-dir", configDir, "exec", "create", "City")
	require.NoError(t, err)
	_, err = runCLI(t, "", "--config-dir", configDir, "init")
	require.NoError(t, err)
	out, err = runCLI(t, "", "--config-dir", configDir, "exec", "count", "City")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitSysError, exitCode(sysError(errors.New("disk"))))
	assert.Equal(t, exitUserError, exitCode(userError(errors.New("bad"))))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1), "debug disabled at warn")

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1), "verbose enables debug")

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}
