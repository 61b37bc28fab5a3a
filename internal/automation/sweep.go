package automation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
)

// SweepParams lists the parameters a sweep may vary.
var SweepParams = []string{"collision_damping", "gravity", "square_size"}

// ParameterSweep runs the base config once per evenly spaced parameter value.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue  float64
	EnergyLoss  float64
	Bounces     float64
	MeanHeight  float64
	Containment float64
}

func sweepable(name string) bool {
	for _, p := range SweepParams {
		if p == name {
			return true
		}
	}
	return false
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *log.Logger) ([]SweepResult, error) {
	if !sweepable(sweep.ParamName) {
		return nil, fmt.Errorf("cannot sweep %q, want one of %v", sweep.ParamName, SweepParams)
	}

	steps := sweep.NumSteps
	if steps < 1 {
		steps = 1
	}
	paramStep := 0.0
	if steps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(steps-1)
	}

	results := make([]SweepResult, 0, steps)
	for i := 0; i < steps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		cfg.SampleEvery = max(cfg.Frames, 1)
		if err := cfg.Set(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("sweep %s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		result.Release()

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			EnergyLoss:  result.Metrics["energy_loss"],
			Bounces:     result.Metrics["bounces"],
			MeanHeight:  result.Metrics["mean_height"],
			Containment: result.Metrics["containment"],
		})

		logger.Info("sweep", "step", i+1, "of", steps, sweep.ParamName, paramVal)
	}

	return results, nil
}
