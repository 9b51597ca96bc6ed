package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

func newSimplifyCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "simplify <source>",
		Short: "Fold constants and prune dead branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseNode(kind, args[0])
			if err != nil {
				return err
			}
			var simple ast.Node
			switch t := n.(type) {
			case *ast.Program:
				simple = t.Simplify()
			case *ast.Condition:
				simple = t.Simplify()
			}

			if flags.jsonMode {
				v, err := newNodeJSON(simple)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"source": n.Source(), "simplified": v})
			}
			fmt.Fprintln(cmd.OutOrStdout(), simple.Source())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindProgram, "tree kind: program or condition")
	return cmd
}
