package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	system    *physics.ParticleSystem
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config, builds the particle system and wires the
// clock and metrics into a simulator. Extra metrics are added after the
// registry defaults.
func (e *Experiment) Setup(registry *Registry, extra ...dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("experiment setup: %w", err)
	}

	system, err := physics.NewFromParams(e.cfg.Params(), e.cfg.Options()...)
	if err != nil {
		return err
	}

	clock, err := registry.GetClock(e.cfg.Clock, e.cfg)
	if err != nil {
		return fmt.Errorf("experiment setup: %w", err)
	}

	e.system = system
	e.simulator = sim.New(system, clock)
	for _, m := range registry.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	for _, m := range extra {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, dynamo.ErrNotSetup
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// System returns the particle system, nil before Setup.
func (e *Experiment) System() *physics.ParticleSystem { return e.system }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
