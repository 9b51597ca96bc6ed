package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/internal/config"
	"github.com/mesh-intelligence/lander/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml and create the archive",
		Long: `Init writes config.yaml with default settings to the config directory,
unless one exists, and creates the archive files in the data directory.
Running init twice is safe.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	configPath := filepath.Join(configDir, config.FileName)
	written, err := config.WriteIfMissing(configPath, config.Default())
	if err != nil {
		return sysError(err)
	}
	if written {
		slog.Info("config written", "path", configPath)
	}

	archive, dir, err := attachArchive()
	if err != nil {
		return err
	}
	if err := archive.Detach(); err != nil {
		return sysError(fmt.Errorf("detach archive: %w", err))
	}

	if flags.jsonMode {
		return printJSON(cmd, map[string]any{"config": configPath, "config_written": written, "data_dir": dir})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "config: %s\ndata: %s\n", configPath, dir)
	return nil
}
