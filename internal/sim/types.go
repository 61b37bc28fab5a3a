package sim

import (
	"fmt"

	"github.com/san-kum/partsim/internal/dynamo"
)

type Config struct {
	// Frames is the number of steps to run. RunWithCallback treats 0 as
	// unbounded.
	Frames int
	// SampleEvery records one frame out of every SampleEvery steps; 0 means 1.
	SampleEvery int
	// MaxDelta clamps the clock's delta before it reaches the system.
	MaxDelta float32
	// FrameRate paces steps against the wall clock when positive.
	FrameRate     int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		SampleEvery:   1,
		MaxDelta:      0.1,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []dynamo.Frame
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Duration   float64
	Errors     []error

	pool *FramePool
}

// Final returns the last recorded frame.
func (r *Result) Final() (dynamo.Frame, error) {
	if len(r.Frames) == 0 {
		return dynamo.Frame{}, dynamo.ErrNoData
	}
	return r.Frames[len(r.Frames)-1], nil
}

// Release hands the recorded position buffers back to the simulator's pool.
// The result must not be used afterwards.
func (r *Result) Release() {
	if r.pool == nil {
		return
	}
	for _, f := range r.Frames {
		r.pool.Put(f.Positions)
	}
	r.Frames = nil
}

func (c Config) validate(bounded bool) error {
	if bounded && c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery)
	}
	if c.MaxDelta < 0 {
		return fmt.Errorf("max_delta must not be negative, got %f", c.MaxDelta)
	}
	if c.FrameRate < 0 {
		return fmt.Errorf("frame_rate must not be negative, got %d", c.FrameRate)
	}
	return nil
}
