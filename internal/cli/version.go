package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the lander release, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/lander/internal/cli.Version=...".
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/lander"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lander version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return printJSON(cmd, map[string]string{"version": Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lander v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
