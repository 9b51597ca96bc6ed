// Package config loads lander's config.yaml with viper, applies LANDER_*
// environment overrides and decodes the result with mapstructure.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/sim"
	"github.com/mesh-intelligence/lander/pkg/types"
)

const (
	// FileName is the configuration file inside the config directory.
	FileName = "config.yaml"

	envPrefix = "LANDER"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Evolution holds the settings of an evolution run.
type Evolution struct {
	Controller      string       `mapstructure:"controller" yaml:"controller"`
	PopulationSize  int          `mapstructure:"population_size" yaml:"population_size"`
	Trials          int          `mapstructure:"trials" yaml:"trials"`
	TournamentSize  int          `mapstructure:"tournament_size" yaml:"tournament_size"`
	ReproduceWeight int          `mapstructure:"reproduce_weight" yaml:"reproduce_weight"`
	MutateWeight    int          `mapstructure:"mutate_weight" yaml:"mutate_weight"`
	CrossoverWeight int          `mapstructure:"crossover_weight" yaml:"crossover_weight"`
	MaxDepth        int          `mapstructure:"max_depth" yaml:"max_depth"`
	Sensors         []ast.Sensor `mapstructure:"sensors" yaml:"sensors,omitempty"`
	Generations     int          `mapstructure:"generations" yaml:"generations"` // 0 runs until interrupted
	Workers         int          `mapstructure:"workers" yaml:"workers"`         // 0 means GOMAXPROCS
	Seed            uint64       `mapstructure:"seed" yaml:"seed"`               // 0 seeds from the clock
}

// Params returns the breeding parameters.
func (e Evolution) Params() darwin.Params {
	return darwin.Params{
		TournamentSize:  e.TournamentSize,
		ReproduceWeight: e.ReproduceWeight,
		MutateWeight:    e.MutateWeight,
		CrossoverWeight: e.CrossoverWeight,
		MaxDepth:        e.MaxDepth,
		Sensors:         e.Sensors,
	}
}

// Output controls generation trace files.
type Output struct {
	TraceDir  string `mapstructure:"trace_dir" yaml:"trace_dir,omitempty"`
	SaveEvery int    `mapstructure:"save_every" yaml:"save_every"` // 0 writes only improvements
	Compress  bool   `mapstructure:"compress" yaml:"compress"`
}

// Config is the decoded config.yaml.
type Config struct {
	Backend   string    `mapstructure:"backend" yaml:"backend"`
	DataDir   string    `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Evolution Evolution `mapstructure:"evolution" yaml:"evolution"`
	World     sim.World `mapstructure:"world" yaml:"world"`
	Output    Output    `mapstructure:"output" yaml:"output"`
}

// Default returns the configuration used when config.yaml is absent.
func Default() Config {
	ps := darwin.DefaultParams()
	return Config{
		Backend: types.BackendSQLite,
		Evolution: Evolution{
			Controller:      types.ControllerCondition,
			PopulationSize:  2000,
			Trials:          3,
			TournamentSize:  ps.TournamentSize,
			ReproduceWeight: ps.ReproduceWeight,
			MutateWeight:    ps.MutateWeight,
			CrossoverWeight: ps.CrossoverWeight,
			MaxDepth:        ps.MaxDepth,
		},
		World: sim.NewWorld(),
	}
}

// Archive returns the archive backend configuration.
func (c Config) Archive() types.Config {
	return types.Config{Backend: c.Backend, DataDir: c.DataDir}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Archive().Validate(); err != nil {
		return err
	}
	if err := c.World.Validate(); err != nil {
		return err
	}
	if err := c.Evolution.Params().Validate(); err != nil {
		return err
	}

	e := c.Evolution
	switch {
	case !types.ValidController(e.Controller):
		return fmt.Errorf("%w: unknown controller %q", ErrInvalidConfig, e.Controller)
	case e.PopulationSize < 1:
		return fmt.Errorf("%w: population_size must be positive", ErrInvalidConfig)
	case e.Trials < 1:
		return fmt.Errorf("%w: trials must be positive", ErrInvalidConfig)
	case e.Generations < 0 || e.Workers < 0:
		return fmt.Errorf("%w: generations and workers must not be negative", ErrInvalidConfig)
	case c.Output.SaveEvery < 0:
		return fmt.Errorf("%w: save_every must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Load reads config.yaml from configDir. A missing file yields the
// defaults; LANDER_* variables override file values (LANDER_EVOLUTION_SEED
// sets evolution.seed).
func Load(configDir string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return nil, err
	}

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			sensorHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf of defaults under its dotted key so that
// AutomaticEnv can override nested settings.
func setDefaults(v *viper.Viper, defaults Config) error {
	var tree map[string]any
	if err := mapstructure.Decode(defaults, &tree); err != nil {
		return fmt.Errorf("flattening defaults: %w", err)
	}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, val := range m {
			if sub, ok := val.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			v.SetDefault(prefix+k, val)
		}
	}
	walk("", tree)
	return nil
}

// sensorHookFunc decodes sensor names such as "Vy" into ast.Sensor values.
func sensorHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(ast.Sensor(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		var s ast.Sensor
		if err := s.UnmarshalText([]byte(strings.TrimSpace(data.(string)))); err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Write stores cfg as YAML at path, creating the parent directory.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteIfMissing writes cfg to path unless the file already exists.
// Reports whether it wrote.
func WriteIfMissing(path string, cfg Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	return true, Write(path, cfg)
}
