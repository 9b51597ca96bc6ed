// Package cli implements the lander command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/internal/config"
	"github.com/mesh-intelligence/lander/internal/paths"
	"github.com/mesh-intelligence/lander/pkg/sqlite"
	"github.com/mesh-intelligence/lander/pkg/types"
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
	dataDir   string
	jsonMode  bool
	logLevel  string
}

var flags rootFlags

// loaded is the configuration read by the root command before any
// subcommand runs.
var loaded *config.Config

// NewRootCmd creates the top-level "lander" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lander",
		Short: "Evolve moon lander control programs",
		Long: "Lander breeds control programs for a 2-D moon lander with genetic\n" +
			"programming, flies them in a simulator and archives the champions.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.lander-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newGenerateCmd(),
		newEvaluateCmd(),
		newSimulateCmd(),
		newSimplifyCmd(),
		newEvolveCmd(),
		newRunsCmd(),
		newChampionsCmd(),
		newDocsCmd(),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lander:", err)
		os.Exit(ExitCode(err))
	}
}

// setup configures logging and loads config.yaml.
func setup(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
		return userError(fmt.Errorf("invalid --log-level %q", flags.logLevel))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	loaded = nil
	if cmd.Name() == "version" || cmd.Name() == "docs" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return userError(fmt.Errorf("load config: %w", err))
	}
	loaded = cfg
	return nil
}

// exitCodeError carries the process exit code of a failed command.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func userError(err error) error { return &exitCodeError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitCodeError{code: exitSysError, err: err} }

// ExitCode maps a command error to a process exit code. Errors without a
// code, such as flag parsing errors, are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	return exitUserError
}

// dataDir resolves the archive directory from flag, config and environment.
func dataDir() (string, error) {
	var fromConfig string
	if loaded != nil {
		fromConfig = loaded.DataDir
	}
	return paths.ResolveDataDir(flags.dataDir, fromConfig)
}

// attachArchive opens the SQLite archive. The caller must Detach it.
func attachArchive() (types.Archive, string, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, "", sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	archive := sqlite.NewBackend()
	if err := archive.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		return nil, "", sysError(fmt.Errorf("attach archive: %w", err))
	}
	return archive, dir, nil
}

// archiveTable opens the archive and returns the named table.
func archiveTable(name string) (types.Archive, types.Table, error) {
	archive, _, err := attachArchive()
	if err != nil {
		return nil, nil, err
	}
	table, err := archive.GetTable(name)
	if err != nil {
		archive.Detach()
		return nil, nil, sysError(fmt.Errorf("get table %s: %w", name, err))
	}
	return archive, table, nil
}

// entityError classifies archive errors.
func entityError(what, id string, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return userError(fmt.Errorf("%s %q not found", what, id))
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidFilter):
		return userError(fmt.Errorf("%s %q: %w", what, id, err))
	}
	return sysError(fmt.Errorf("%s %q: %w", what, id, err))
}
