package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

func newGenerateCmd() *cobra.Command {
	var (
		kind  string
		depth int
		seed  uint64
		count int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print random programs or conditions",
		Long: `Generate prints random trees in builder notation, one per line.

Example:
  lander generate --kind program --depth 5 --count 3 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 0 || count < 1 {
				return userError(fmt.Errorf("invalid --depth %d or --count %d", depth, count))
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			gen := ast.NewGenerator(rand.New(rand.NewPCG(seed, seed>>1|1)), depth)
			if loaded != nil {
				gen.Sensors = loaded.Evolution.Sensors
			}

			nodes := make([]ast.Node, 0, count)
			for range count {
				switch kind {
				case kindProgram:
					nodes = append(nodes, gen.Program())
				case kindCondition:
					nodes = append(nodes, gen.Condition())
				default:
					return userError(fmt.Errorf("unknown kind %q (valid: program, condition)", kind))
				}
			}

			if flags.jsonMode {
				views := make([]nodeJSON, 0, len(nodes))
				for _, n := range nodes {
					v, err := newNodeJSON(n)
					if err != nil {
						return err
					}
					views = append(views, v)
				}
				return printJSON(cmd, views)
			}
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), n.Source())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindProgram, "tree kind: program or condition")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth (0 uses the generator default)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	cmd.Flags().IntVar(&count, "count", 1, "number of trees")
	return cmd
}
