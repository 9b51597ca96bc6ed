package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/internal/docindex"
)

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Print the library documentation index as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, docindex.Build())
		},
	}
}
