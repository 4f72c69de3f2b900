package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and storage",
		Long: "Create the configuration directory and config.yaml, then create the\n" +
			"data file if it does not exist. Existing files are left as they are.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return userError(fmt.Errorf("resolve config dir: %w", err))
	}

	if err := ensureConfigDir(configDir); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	// Persisting the loaded table creates the data file without altering
	// existing contents.
	if err := sess.store.Persist(); err != nil {
		_ = sess.close()
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := sess.close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized\nconfig: %s\ndata:   %s\n", configPath, sess.settings.store.DataFile)
	return nil
}

// writeConfigIfMissing creates config.yaml from the current flags if the file
// does not exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:  defaultBackend,
		DataFile: flags.dataFile,
		LogLevel: defaultLogLevel,
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if cfg.DataFile != "" {
		abs, err := filepath.Abs(cfg.DataFile)
		if err != nil {
			return err
		}
		cfg.DataFile = abs
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
