package sim

import (
	"math"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// Update advances d by one frame in which command c is applied under w.
// A lander that has landed or crashed does not move any more.
func Update(d *SensorData, c ast.Command, w World) {
	if d.Done() {
		return
	}

	switch c {
	case ast.CommandLeft:
		d.W += w.AngularIncrement
	case ast.CommandRight:
		d.W -= w.AngularIncrement
	}
	d.O += d.W

	var a ast.Number
	if c == ast.CommandThrust && d.Fuel > 0 {
		a = w.Thrust
	}
	d.Vx += -a * math.Sin(d.O)
	d.Vy += a*math.Cos(d.O) + w.Gravity
	d.X += d.Vx
	d.Y += d.Vy

	if c == ast.CommandThrust {
		d.Fuel = max(d.Fuel-w.FuelConsumption, 0)
	}

	down := d.Y < w.Tolerance
	upright := AngleDist(d.O) < w.Tolerance
	d.CrashSpeed = math.Abs(d.Vy)
	tooFast := d.CrashSpeed > w.MaxLandingSpeed

	d.HitGround = down
	d.Crashed = down && (!upright || tooFast)
	d.Landed = down && upright && !tooFast
	d.Thrusting = c == ast.CommandThrust
}

// NextProgram evaluates p against d and applies the resulting command.
func NextProgram(d *SensorData, p *ast.Program, w World) {
	Update(d, p.Evaluate(*d), w)
}

// NextCondition thrusts while c holds and drifts otherwise.
func NextCondition(d *SensorData, c *ast.Condition, w World) {
	cmd := ast.CommandSkip
	if c.Value(*d) {
		cmd = ast.CommandThrust
	}
	Update(d, cmd, w)
}

// Controller decides the command for a frame.
type Controller interface {
	Command(d SensorData) ast.Command
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(d SensorData) ast.Command

func (f ControllerFunc) Command(d SensorData) ast.Command { return f(d) }

// ProgramController steers with a full program.
func ProgramController(p *ast.Program) Controller {
	return ControllerFunc(func(d SensorData) ast.Command { return p.Evaluate(d) })
}

// ConditionController thrusts while the condition holds.
func ConditionController(c *ast.Condition) Controller {
	return ControllerFunc(func(d SensorData) ast.Command {
		if c.Value(d) {
			return ast.CommandThrust
		}
		return ast.CommandSkip
	})
}

// Run simulates from start until the lander hits the ground or
// w.MaxFrames frames have passed. The trace holds the start state followed
// by the state after every frame.
func Run(start SensorData, ctl Controller, w World) (SensorData, *GameTrace) {
	d := start
	trace := NewGameTrace()
	trace.Add(d)
	for frame := 0; frame < w.MaxFrames && !d.HitGround; frame++ {
		Update(&d, ctl.Command(d), w)
		trace.Add(d)
	}
	return d, trace
}
