package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
)

func TestRegistryClocks(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()

	for _, name := range []string{"fixed", "jitter", "wall", ""} {
		clock, err := r.GetClock(name, cfg)
		if err != nil {
			t.Errorf("clock %q: %v", name, err)
			continue
		}
		if clock == nil {
			t.Errorf("clock %q is nil", name)
		}
	}

	if _, err := r.GetClock("sundial", cfg); err == nil {
		t.Error("expected error for unknown clock")
	}

	fixed, _ := r.GetClock("fixed", cfg)
	if fixed.Next() != cfg.Dt {
		t.Errorf("fixed clock: expected %f, got %f", cfg.Dt, fixed.Next())
	}
}

func TestRegistryMetrics(t *testing.T) {
	r := NewRegistry()

	ms := r.DefaultMetrics()
	if len(ms) != 6 {
		t.Fatalf("expected 6 default metrics, got %d", len(ms))
	}

	again := r.DefaultMetrics()
	if ms[0] == again[0] {
		t.Error("DefaultMetrics must return fresh instances")
	}

	if _, err := r.GetMetric("containment"); err != nil {
		t.Error(err)
	}
	if _, err := r.GetMetric("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	cfg.Frames = 120
	cfg.SampleEvery = 10

	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.StepsTaken != 120 {
		t.Errorf("expected 120 steps, got %d", result.StepsTaken)
	}
	if len(result.Frames) != 13 {
		t.Errorf("expected 13 sampled frames, got %d", len(result.Frames))
	}
	if result.Metrics["containment"] != 1.0 {
		t.Errorf("expected containment 1, got %f", result.Metrics["containment"])
	}
	if exp.System().Version() != 120 {
		t.Errorf("expected version 120, got %d", exp.System().Version())
	}
}

func TestExperimentDeterministic(t *testing.T) {
	run := func() []float32 {
		cfg := config.GetPreset("single")
		cfg.Frames = 90
		cfg.Clock = "jitter"
		cfg.Jitter = 0.004

		exp := New(cfg)
		if err := exp.Setup(NewRegistry()); err != nil {
			t.Fatal(err)
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		final, err := result.Final()
		if err != nil {
			t.Fatal(err)
		}
		return final.Positions
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("component %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(config.DefaultConfig())
	if _, err := exp.Run(context.Background()); !errors.Is(err, dynamo.ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CollisionDamping = 2

	err := New(cfg).Setup(NewRegistry())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Clock = "sundial"
	if err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected error for unknown clock")
	}
}
