package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, applies overrides keyed like the YAML
// config, and optionally runs for a different number of frames.
type ScenarioStep struct {
	Preset    string             `yaml:"preset"`
	Frames    int                `yaml:"frames"`
	Overrides map[string]float64 `yaml:"overrides"`
	Clock     string             `yaml:"clock"`
	SaveAs    string             `yaml:"save_as"`
}

type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	for k, v := range s.Overrides {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.Clock != "" {
		cfg.Clock = s.Clock
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("running step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		logger.Debug("step done",
			"step", i+1,
			"frames", result.StepsTaken,
			"energy_loss", result.Metrics["energy_loss"],
			"bounces", result.Metrics["bounces"],
		)
		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}
