// Package paths resolves the configuration directory and the data file
// location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user configuration directory.
const appName = "hbnb"

// Environment variable names for location overrides.
const (
	EnvConfigDir = "HBNB_CONFIG_DIR"
	EnvDataFile  = "HBNB_DATA_FILE"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/hbnb (fallback ~/.config/hbnb)
// macOS:   ~/Library/Application Support/hbnb
// Windows: %APPDATA%/hbnb
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > HBNB_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataFile returns the data file path following the precedence chain:
// flag > configValue > HBNB_DATA_FILE env > $(CWD)/defaultName.
//
// The working-directory default keeps the store next to where the console
// is started.
func ResolveDataFile(flag, configValue, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataFile); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
