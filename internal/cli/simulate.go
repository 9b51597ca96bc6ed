package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/sim"
	"github.com/mesh-intelligence/lander/pkg/trace"
)

func newSimulateCmd() *cobra.Command {
	var (
		kind    string
		out     string
		sensors sensorFlags
	)
	cmd := &cobra.Command{
		Use:   "simulate <source>",
		Short: "Fly a program or condition and report the outcome",
		Long: `Simulate flies the lander from the state given by the sensor flags until
it hits the ground or the world's frame limit is reached. A condition
thrusts while it holds. With --out the trace is written as a JSON array,
zstd compressed when the path ends in .zst.

Example:
  lander simulate --kind condition 'less(vy(),constant(-1))' --y 100 --out flight.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseNode(kind, args[0])
			if err != nil {
				return err
			}
			w := sim.NewWorld()
			if loaded != nil {
				w = loaded.World
			}
			if err := w.Validate(); err != nil {
				return userError(err)
			}

			var ctl sim.Controller
			switch t := n.(type) {
			case *ast.Program:
				ctl = sim.ProgramController(t)
			case *ast.Condition:
				ctl = sim.ConditionController(t)
			}
			final, tr := sim.Run(sensors.data(), ctl, w)

			if out != "" {
				if err := trace.Save(out, tr); err != nil {
					return sysError(err)
				}
			}

			if flags.jsonMode {
				return printJSON(cmd, map[string]any{"frames": tr.Frames(), "final": final, "trace": out})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "frames: %d\nlanded: %t\ncrashed: %t\ncrash speed: %.4f\nfuel: %.4f\n",
				tr.Frames(), final.Landed, final.Crashed, final.CrashSpeed, final.Fuel)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindProgram, "tree kind: program or condition")
	cmd.Flags().StringVar(&out, "out", "", "write the trace to this file")
	sensors.register(cmd)
	return cmd
}
