// Package config loads the tolerances and thresholds used when building and
// sampling road geometry.
package config

import (
	"fmt"
	"math"
	"os"

	"honnef.co/go/roadgeom/logging"

	"gopkg.in/yaml.v3"
)

// Tolerance holds the comparison tolerances threaded through geometry
// construction. There is no global epsilon; every constructor takes the
// tolerance it needs.
type Tolerance struct {
	// Number is the tolerance for comparing parameters, such as segment
	// starts of concatenated functions.
	Number float64 `yaml:"number" json:"number"`
	// Distance is the tolerance for comparing points, in meters.
	Distance float64 `yaml:"distance" json:"distance"`
	// Angle is the tolerance for comparing headings, in radians.
	Angle float64 `yaml:"angle" json:"angle"`
}

// Reprojection controls the rigid approximation of a change of coordinate
// reference system.
type Reprojection struct {
	// MaxDeviation is the deviation in meters above which the rigid fit is
	// reported as inaccurate.
	MaxDeviation float64 `yaml:"maxDeviation" json:"maxDeviation"`
	// SampleExtent is half the edge length of the sample grid, in meters.
	SampleExtent float64 `yaml:"sampleExtent" json:"sampleExtent"`
	// SampleCount is the number of samples along each edge of the grid.
	SampleCount int `yaml:"sampleCount" json:"sampleCount"`
}

// Logging configures the logger.
type Logging struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// AddSource includes the source location of each record.
	AddSource bool `yaml:"addSource,omitempty" json:"addSource,omitempty"`
}

// Config is the complete configuration.
type Config struct {
	Tolerance              Tolerance    `yaml:"tolerance" json:"tolerance"`
	DiscretizationStepSize float64      `yaml:"discretizationStepSize" json:"discretizationStepSize"`
	Reprojection           Reprojection `yaml:"reprojection" json:"reprojection"`
	Logging                Logging      `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Tolerance: Tolerance{
			Number:   1e-7,
			Distance: 1e-7,
			Angle:    1e-7,
		},
		DiscretizationStepSize: 0.7,
		Reprojection: Reprojection{
			MaxDeviation: 0.01,
			SampleExtent: 500,
			SampleCount:  5,
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Validate reports the first invalid field.
func (cfg Config) Validate() error {
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g", name, v)
		}
		return nil
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"tolerance.number", cfg.Tolerance.Number},
		{"tolerance.distance", cfg.Tolerance.Distance},
		{"tolerance.angle", cfg.Tolerance.Angle},
		{"discretizationStepSize", cfg.DiscretizationStepSize},
		{"reprojection.maxDeviation", cfg.Reprojection.MaxDeviation},
		{"reprojection.sampleExtent", cfg.Reprojection.SampleExtent},
	}
	for _, c := range checks {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	if cfg.Reprojection.SampleCount < 2 {
		return fmt.Errorf("reprojection.sampleCount must be at least 2, got %d", cfg.Reprojection.SampleCount)
	}
	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", cfg.Logging.Format)
	}
	return nil
}

// LoggingConfig converts the logging section. The output is left unset.
func (cfg Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	}
}

// Logger returns a logger configured by the logging section.
func (cfg Config) Logger() logging.Logger {
	return logging.New(cfg.LoggingConfig())
}

// Load reads the configuration from a YAML file. Fields missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
