package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
)

type Registry struct {
	clocks  map[string]func(*config.Config) dynamo.Clock
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		clocks:  make(map[string]func(*config.Config) dynamo.Clock),
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.clocks["fixed"] = func(c *config.Config) dynamo.Clock { return sim.Fixed(c.Dt) }
	r.clocks["jitter"] = func(c *config.Config) dynamo.Clock { return sim.Jitter(c.Dt, c.Jitter, c.Seed) }
	r.clocks["wall"] = func(c *config.Config) dynamo.Clock { return sim.Wall() }

	r.metrics["kinetic_energy"] = func() dynamo.Metric { return metrics.NewKineticEnergy() }
	r.metrics["total_energy"] = func() dynamo.Metric { return metrics.NewTotalEnergy() }
	r.metrics["energy_loss"] = func() dynamo.Metric { return metrics.NewEnergyLoss() }
	r.metrics["bounces"] = func() dynamo.Metric { return metrics.NewBounces() }
	r.metrics["containment"] = func() dynamo.Metric { return metrics.NewContainment() }
	r.metrics["mean_height"] = func() dynamo.Metric { return metrics.NewMeanHeight() }

	return r
}

// RegisterClock adds or replaces a named clock constructor.
func (r *Registry) RegisterClock(name string, fn func(*config.Config) dynamo.Clock) {
	r.clocks[name] = fn
}

func (r *Registry) GetClock(name string, cfg *config.Config) (dynamo.Clock, error) {
	if name == "" {
		name = config.DefaultClock
	}
	fn, ok := r.clocks[name]
	if !ok {
		return nil, fmt.Errorf("unknown clock: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListClocks() []string {
	return sortedKeys(r.clocks)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	names := r.ListMetrics()
	ms := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		ms = append(ms, r.metrics[name]())
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
