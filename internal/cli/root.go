// Package cli implements the hbnb command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/pkg/hbnb"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataFile  string
	backend   string
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "hbnb" command with global flags
// and all subcommands registered. Run without a subcommand it starts the
// interactive console.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hbnb",
		Short: "Interactive object store for hbnb entities",
		Long: "hbnb manages users, states, cities, amenities, places and reviews\n" +
			"in a local JSON file through an interactive console.",
		Args: cobra.NoArgs,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runConsole,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/hbnb)")
	root.PersistentFlags().StringVar(&flags.dataFile, "data-file", "", "data file (default: ./file.json)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: json or sqlite")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newConsoleCmd())
	root.AddCommand(newExecCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hbnb:", err)
		os.Exit(exitCode(err))
	}
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps err to a process exit code. Errors that carry no code are
// usage errors from cobra.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// session is an open store with the logger and settings it was opened with.
type session struct {
	settings settings
	logger   *zap.Logger
	store    types.Store
}

// openSession resolves configuration, builds the logger, and opens the store.
func openSession() (*session, error) {
	s, err := resolveSettings()
	if err != nil {
		return nil, userError(err)
	}

	logger, err := newLogger(s.logLevel, flags.verbose)
	if err != nil {
		return nil, userError(err)
	}

	store, err := hbnb.Open(s.store, hbnb.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, sysError(err)
	}
	logger.Debug("session opened",
		zap.String("config_dir", s.configDir),
		zap.String("backend", s.store.Backend),
		zap.String("data_file", s.store.DataFile))
	return &session{settings: s, logger: logger, store: store}, nil
}

func (s *session) console(out io.Writer, opts ...console.Option) *console.Console {
	opts = append([]console.Option{console.WithLogger(s.logger)}, opts...)
	return console.New(s.store, out, opts...)
}

func (s *session) close() error {
	err := s.store.Close()
	_ = s.logger.Sync()
	if err != nil {
		return sysError(fmt.Errorf("close store: %w", err))
	}
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
