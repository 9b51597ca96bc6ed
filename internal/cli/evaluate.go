package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/sim"
)

// sensorFlags binds one flag per sensor to a SensorData.
type sensorFlags struct {
	x, y, vx, vy, o, w, fuel float64
}

func (s *sensorFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.x, "x", 0, "horizontal position")
	cmd.Flags().Float64Var(&s.y, "y", 0, "height above ground")
	cmd.Flags().Float64Var(&s.vx, "vx", 0, "horizontal velocity")
	cmd.Flags().Float64Var(&s.vy, "vy", 0, "vertical velocity")
	cmd.Flags().Float64Var(&s.o, "o", 0, "orientation in radians")
	cmd.Flags().Float64Var(&s.w, "w", 0, "angular velocity")
	cmd.Flags().Float64Var(&s.fuel, "fuel", 1, "fuel left, 0 to 1")
}

func (s *sensorFlags) data() sim.SensorData {
	return sim.NewSensorData().
		WithX(s.x).WithY(s.y).
		WithVx(s.vx).WithVy(s.vy).
		WithO(s.o).WithW(s.w).
		WithFuel(s.fuel)
}

func newEvaluateCmd() *cobra.Command {
	var (
		kind    string
		sensors sensorFlags
	)
	cmd := &cobra.Command{
		Use:   "evaluate <source>",
		Short: "Evaluate a program or condition against sensor readings",
		Long: `Evaluate prints the command a program selects, or the truth value of a
condition, for the readings given by the sensor flags.

Example:
  lander evaluate 'iff(less(vy(),constant(-1)),thrust(),skip())' --vy -2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseNode(kind, args[0])
			if err != nil {
				return err
			}
			d := sensors.data()

			var result any
			switch t := n.(type) {
			case *ast.Program:
				result = t.Evaluate(d).String()
			case *ast.Condition:
				result = t.Value(d)
			}

			if flags.jsonMode {
				return printJSON(cmd, map[string]any{"source": n.Source(), "readings": d, "result": result})
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindProgram, "tree kind: program or condition")
	sensors.register(cmd)
	return cmd
}
