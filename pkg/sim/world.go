package sim

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/lander/pkg/ast"
)

// Default physical constants of a World.
const (
	DefaultAngularIncrement = 0.1
	DefaultGravity          = -0.5
	DefaultThrust           = 0.6
	DefaultTolerance        = 0.01
	DefaultFuelConsumption  = 0.01
	DefaultMaxLandingSpeed  = 10.0
	DefaultMaxFrames        = 10000
)

// World holds the physical constants of a simulation. The zero value is not
// useful; start from NewWorld.
type World struct {
	AngularIncrement ast.Number `mapstructure:"angular_increment" yaml:"angular_increment" json:"angular_increment"`
	Gravity          ast.Number `mapstructure:"gravity" yaml:"gravity" json:"gravity"`
	Thrust           ast.Number `mapstructure:"thrust" yaml:"thrust" json:"thrust"`
	Tolerance        ast.Number `mapstructure:"tolerance" yaml:"tolerance" json:"tolerance"`
	FuelConsumption  ast.Number `mapstructure:"fuel_consumption" yaml:"fuel_consumption" json:"fuel_consumption"`
	MaxLandingSpeed  ast.Number `mapstructure:"max_landing_speed" yaml:"max_landing_speed" json:"max_landing_speed"`
	MaxFrames        int        `mapstructure:"max_frames" yaml:"max_frames" json:"max_frames"`
}

// NewWorld returns a World with the default constants.
func NewWorld() World {
	return World{
		AngularIncrement: DefaultAngularIncrement,
		Gravity:          DefaultGravity,
		Thrust:           DefaultThrust,
		Tolerance:        DefaultTolerance,
		FuelConsumption:  DefaultFuelConsumption,
		MaxLandingSpeed:  DefaultMaxLandingSpeed,
		MaxFrames:        DefaultMaxFrames,
	}
}

func (w World) WithAngularIncrement(v ast.Number) World { w.AngularIncrement = v; return w }
func (w World) WithGravity(v ast.Number) World          { w.Gravity = v; return w }
func (w World) WithThrust(v ast.Number) World           { w.Thrust = v; return w }
func (w World) WithTolerance(v ast.Number) World        { w.Tolerance = v; return w }
func (w World) WithFuelConsumption(v ast.Number) World  { w.FuelConsumption = v; return w }
func (w World) WithMaxLandingSpeed(v ast.Number) World  { w.MaxLandingSpeed = v; return w }
func (w World) WithMaxFrames(n int) World               { w.MaxFrames = n; return w }

// Validate rejects constants that would make a simulation meaningless.
func (w World) Validate() error {
	for name, v := range map[string]ast.Number{
		"angular_increment": w.AngularIncrement,
		"gravity":           w.Gravity,
		"thrust":            w.Thrust,
		"tolerance":         w.Tolerance,
		"fuel_consumption":  w.FuelConsumption,
		"max_landing_speed": w.MaxLandingSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidWorld, name)
		}
	}
	if w.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive", ErrInvalidWorld)
	}
	if w.MaxLandingSpeed < 0 {
		return fmt.Errorf("%w: max_landing_speed must not be negative", ErrInvalidWorld)
	}
	if w.FuelConsumption < 0 {
		return fmt.Errorf("%w: fuel_consumption must not be negative", ErrInvalidWorld)
	}
	if w.MaxFrames <= 0 {
		return fmt.Errorf("%w: max_frames must be positive", ErrInvalidWorld)
	}
	return nil
}
