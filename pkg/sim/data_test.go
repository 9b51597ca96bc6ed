package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

func TestSensorDataReadings(t *testing.T) {
	d := NewSensorData().WithX(1).WithY(2).WithVx(3).WithVy(4).WithO(5).WithW(6).WithFuel(0.5)

	want := map[ast.Sensor]ast.Number{
		ast.SensorX:    1,
		ast.SensorY:    2,
		ast.SensorVx:   3,
		ast.SensorVy:   4,
		ast.SensorO:    5,
		ast.SensorW:    6,
		ast.SensorFuel: 0.5,
	}
	for s, v := range want {
		assert.Equal(t, v, d.Sensor(s), s.String())
	}
}

func TestSensorDataBuildersCopy(t *testing.T) {
	base := NewSensorData()
	moved := base.WithY(100)

	assert.Zero(t, base.Y)
	assert.Equal(t, 100.0, moved.Y)
	assert.Equal(t, 1.0, moved.Fuel)
}

func TestSensorDataDrivesPrograms(t *testing.T) {
	program := ast.If(ast.Greater(ast.Fuel(), ast.Constant(0.5)), ast.Thrust(), ast.Left())

	assert.Equal(t, ast.CommandThrust, program.Evaluate(NewSensorData()))
	assert.Equal(t, ast.CommandLeft, program.Evaluate(NewSensorData().WithFuel(0.2)))
}
