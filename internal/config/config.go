package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 1.0 / 60.0
	DefaultFrames      = 600
	DefaultClock       = "fixed"
	DefaultSampleEvery = 1
	DefaultMaxDelta    = 0.1
)

type Config struct {
	Count            int     `yaml:"count" json:"count"`
	SquareSize       float32 `yaml:"square_size" json:"square_size"`
	Gravity          float32 `yaml:"gravity" json:"gravity"`
	CollisionDamping float32 `yaml:"collision_damping" json:"collision_damping"`
	Seed             int64   `yaml:"seed" json:"seed"`
	Workers          int     `yaml:"workers" json:"workers"`
	Frames           int     `yaml:"frames" json:"frames"`
	Dt               float32 `yaml:"dt" json:"dt"`
	Jitter           float32 `yaml:"jitter" json:"jitter"`
	MaxDelta         float32 `yaml:"max_delta" json:"max_delta"`
	Clock            string  `yaml:"clock" json:"clock"`
	SampleEvery      int     `yaml:"sample_every" json:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Count:            physics.DefaultCount,
		SquareSize:       physics.DefaultSquareSize,
		Gravity:          physics.DefaultGravity,
		CollisionDamping: physics.DefaultCollisionDamping,
		Frames:           DefaultFrames,
		Dt:               DefaultDt,
		MaxDelta:         DefaultMaxDelta,
		Clock:            DefaultClock,
		SampleEvery:      DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	finite := func(v float32) bool {
		return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
	}
	switch {
	case c.Dt < 0 || !finite(c.Dt):
		return dynamo.BoundsError("dt", float64(c.Dt), ">= 0")
	case c.Jitter < 0:
		return dynamo.BoundsError("jitter", float64(c.Jitter), ">= 0")
	case c.MaxDelta < 0:
		return dynamo.BoundsError("max_delta", float64(c.MaxDelta), ">= 0")
	case c.Frames < 0:
		return dynamo.BoundsError("frames", float64(c.Frames), ">= 0")
	case c.SampleEvery < 0:
		return dynamo.BoundsError("sample_every", float64(c.SampleEvery), ">= 0")
	case c.Workers < 0:
		return dynamo.BoundsError("workers", float64(c.Workers), ">= 0")
	}
	return nil
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		Count:            c.Count,
		SquareSize:       c.SquareSize,
		Gravity:          c.Gravity,
		CollisionDamping: c.CollisionDamping,
	}
}

// Options turns the seed and worker settings into constructor options.
// A zero seed leaves the system on a time-seeded source.
func (c *Config) Options() []physics.Option {
	var opts []physics.Option
	if c.Seed != 0 {
		opts = append(opts, physics.WithSeed(c.Seed))
	}
	if c.Workers > 1 {
		opts = append(opts, physics.WithWorkers(c.Workers))
	}
	return opts
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Frames = c.Frames
	cfg.SampleEvery = c.SampleEvery
	cfg.MaxDelta = c.MaxDelta
	return cfg
}

// Set assigns a numeric field by its YAML key. Scenario overrides and
// parameter sweeps go through here.
func (c *Config) Set(key string, value float64) error {
	switch key {
	case "count":
		c.Count = int(value)
	case "square_size":
		c.SquareSize = float32(value)
	case "gravity":
		c.Gravity = float32(value)
	case "collision_damping":
		c.CollisionDamping = float32(value)
	case "seed":
		c.Seed = int64(value)
	case "workers":
		c.Workers = int(value)
	case "frames":
		c.Frames = int(value)
	case "dt":
		c.Dt = float32(value)
	case "jitter":
		c.Jitter = float32(value)
	case "max_delta":
		c.MaxDelta = float32(value)
	case "sample_every":
		c.SampleEvery = int(value)
	default:
		return fmt.Errorf("unknown parameter: %s", key)
	}
	return nil
}
