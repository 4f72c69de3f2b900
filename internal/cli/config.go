package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataFile = "data_file"
	cfgKeyPrompt   = "prompt"
	cfgKeyLogLevel = "log_level"

	defaultBackend  = types.BackendJSON
	defaultLogLevel = "warn"

	envLogLevel = "HBNB_LOG_LEVEL"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# hbnb configuration

# Storage backend: json or sqlite
backend: json

# Data file (optional; overridable by --data-file or HBNB_DATA_FILE)
# data_file: file.json

# Log level written to stderr: debug, info, warn, error
log_level: warn
`

// configFile is the shape of config.yaml.
type configFile struct {
	Backend  string `mapstructure:"backend" yaml:"backend"`
	DataFile string `mapstructure:"data_file" yaml:"data_file,omitempty"`
	Prompt   string `mapstructure:"prompt" yaml:"prompt,omitempty"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
}

// settings is the fully resolved configuration for one command run.
type settings struct {
	configDir string
	store     types.Config
	prompt    string
	logLevel  string
}

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyPrompt, console.DefaultPrompt)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	if err := v.BindEnv(cfgKeyLogLevel, envLogLevel); err != nil {
		return nil, fmt.Errorf("bind %s: %w", envLogLevel, err)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// resolveSettings loads config.yaml and applies flag and environment
// overrides.
func resolveSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	var fc configFile
	if err := v.Unmarshal(&fc); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}

	backend := fc.Backend
	if flags.backend != "" {
		backend = flags.backend
	}

	dataFile, err := paths.ResolveDataFile(flags.dataFile, fc.DataFile, types.DefaultFileName(backend))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data file: %w", err)
	}

	s := settings{
		configDir: configDir,
		store:     types.Config{Backend: backend, DataFile: dataFile},
		prompt:    fc.Prompt,
		logLevel:  fc.LogLevel,
	}
	if err := s.store.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
