package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

// MonteCarloConfig runs NumTrials seeded copies of Base. Perturbation is the
// relative spread applied to gravity and damping per trial.
type MonteCarloConfig struct {
	Base         *config.Config
	NumTrials    int
	Perturbation float64
	Seed         int64
}

type MonteCarloResult struct {
	TrialID          int
	Seed             int64
	Gravity          float32
	CollisionDamping float32
	EnergyLoss       float64
	Bounces          float64
	// Contained is true when every sample kept every particle in the box
	// and no position went non-finite.
	Contained bool
}

// perturb derives the trial's parameters from its seed alone, so a trial can
// be replayed without the rest of the ensemble.
func perturb(base *config.Config, seed int64, spread float64) *config.Config {
	cfg := base.Clone()
	cfg.Seed = seed
	if spread <= 0 {
		return cfg
	}
	rng := rand.New(rand.NewSource(seed))
	jitter := func(v float32) float32 {
		return v * float32(1+(rng.Float64()*2-1)*spread)
	}
	cfg.Gravity = max(jitter(cfg.Gravity), 0)
	cfg.CollisionDamping = min(max(jitter(cfg.CollisionDamping), 0.01), 1)
	return cfg
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry, logger *log.Logger) ([]MonteCarloResult, error) {
	if mc.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", mc.NumTrials)
	}
	if err := mc.Base.Validate(); err != nil {
		return nil, err
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	trials := make([]*config.Config, mc.NumTrials)
	clocks := make([]dynamo.Clock, mc.NumTrials)
	for i := range trials {
		trials[i] = perturb(mc.Base, seed+int64(i), mc.Perturbation)
		clock, err := registry.GetClock(trials[i].Clock, trials[i])
		if err != nil {
			return nil, err
		}
		clocks[i] = clock
	}

	factory := func(s int64) (dynamo.System, dynamo.Clock, []dynamo.Metric) {
		i := s - seed
		cfg := trials[i]
		sys := physics.New(cfg.Count, cfg.SquareSize, cfg.Gravity, cfg.CollisionDamping, cfg.Options()...)
		return sys, clocks[i], registry.DefaultMetrics()
	}

	runCfg := mc.Base.SimConfig()
	runCfg.SampleEvery = max(runCfg.Frames, 1)

	logger.Info("monte carlo", "trials", mc.NumTrials, "seed", seed, "frames", runCfg.Frames)
	runs, err := sim.NewEnsemble(factory, mc.NumTrials, seed).Run(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, mc.NumTrials)
	for i, r := range runs {
		cfg := trials[i]
		results = append(results, MonteCarloResult{
			TrialID:          i,
			Seed:             cfg.Seed,
			Gravity:          cfg.Gravity,
			CollisionDamping: cfg.CollisionDamping,
			EnergyLoss:       r.Metrics["energy_loss"],
			Bounces:          r.Metrics["bounces"],
			Contained:        len(r.Errors) == 0 && r.Metrics["containment"] == 1.0,
		})
		r.Release()
	}

	contained, escaped := MonteCarloStats(results)
	logger.Info("monte carlo done", "contained", contained, "escaped", escaped)
	return results, nil
}

// MonteCarloStats counts trials that kept the containment invariant.
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
