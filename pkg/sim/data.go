package sim

import "github.com/mesh-intelligence/lander/pkg/ast"

// SensorData is the lander state visible to control programs, plus the
// outcome flags maintained by Update.
type SensorData struct {
	X    ast.Number `json:"x"`
	Y    ast.Number `json:"y"`
	Vx   ast.Number `json:"vx"`
	Vy   ast.Number `json:"vy"`
	O    ast.Number `json:"o"`
	W    ast.Number `json:"w"`
	Fuel ast.Number `json:"fuel"`

	HitGround  bool       `json:"hit_ground"`
	Crashed    bool       `json:"crashed"`
	Landed     bool       `json:"landed"`
	Thrusting  bool       `json:"thrusting"`
	CrashSpeed ast.Number `json:"crash_speed"`
}

// NewSensorData returns a lander at the origin, at rest, with a full tank.
func NewSensorData() SensorData {
	return SensorData{Fuel: 1}
}

func (d SensorData) WithX(x ast.Number) SensorData       { d.X = x; return d }
func (d SensorData) WithY(y ast.Number) SensorData       { d.Y = y; return d }
func (d SensorData) WithVx(vx ast.Number) SensorData     { d.Vx = vx; return d }
func (d SensorData) WithVy(vy ast.Number) SensorData     { d.Vy = vy; return d }
func (d SensorData) WithO(o ast.Number) SensorData       { d.O = o; return d }
func (d SensorData) WithW(w ast.Number) SensorData       { d.W = w; return d }
func (d SensorData) WithFuel(fuel ast.Number) SensorData { d.Fuel = fuel; return d }

// Sensor implements ast.Readings.
func (d SensorData) Sensor(s ast.Sensor) ast.Number {
	switch s {
	case ast.SensorX:
		return d.X
	case ast.SensorY:
		return d.Y
	case ast.SensorVx:
		return d.Vx
	case ast.SensorVy:
		return d.Vy
	case ast.SensorO:
		return d.O
	case ast.SensorW:
		return d.W
	case ast.SensorFuel:
		return d.Fuel
	}
	return 0
}

// Done reports whether the lander has landed or crashed. Update leaves a
// finished state untouched.
func (d SensorData) Done() bool {
	return d.Landed || d.Crashed
}
