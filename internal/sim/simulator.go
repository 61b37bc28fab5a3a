package sim

import (
	"context"
	"time"

	"github.com/san-kum/partsim/internal/dynamo"
)

// Simulator is the per-frame driver: it asks the clock for a delta, steps the
// system once and lets metrics and observers look at the result.
type Simulator struct {
	sys       dynamo.System
	clock     dynamo.Clock
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	pool      *FramePool
}

func New(sys dynamo.System, clock dynamo.Clock) *Simulator {
	return &Simulator{
		sys:       sys,
		clock:     clock,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		pool:      NewFramePool(sys.Count() * 3),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() dynamo.System { return s.sys }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(true); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}
	samples := cfg.Frames/every + 1
	result := &Result{
		Frames:  make([]dynamo.Frame, 0, samples),
		Times:   make([]float64, 0, samples),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
		pool:    s.pool,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	s.observe(t)
	s.record(result, t)

	ticker := s.pacer(cfg.FrameRate)
	if ticker != nil {
		defer ticker.Stop()
	}

	for i := 0; i < cfg.Frames; i++ {
		if err := s.wait(ctx, ticker); err != nil {
			return result, err
		}

		t += float64(s.advance(cfg))
		result.StepsTaken++

		if cfg.ValidateState && !dynamo.Finite(s.sys.Positions()) {
			err := &dynamo.SimulationError{Frame: i, Time: t, Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, err)
			break
		}

		s.observe(t)
		if (i+1)%every == 0 {
			s.record(result, t)
		}
	}

	result.Duration = t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until fn returns false, the context ends, or
// cfg.Frames steps have run when it is positive.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(v dynamo.View, t float64) bool) error {
	if err := cfg.validate(false); err != nil {
		return err
	}

	ticker := s.pacer(cfg.FrameRate)
	if ticker != nil {
		defer ticker.Stop()
	}

	t := 0.0
	for i := 0; cfg.Frames == 0 || i < cfg.Frames; i++ {
		if err := s.wait(ctx, ticker); err != nil {
			return err
		}

		t += float64(s.advance(cfg))

		if cfg.ValidateState && !dynamo.Finite(s.sys.Positions()) {
			return &dynamo.SimulationError{Frame: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		s.observe(t)
		if !fn(s.sys, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) advance(cfg Config) float32 {
	dt := s.clock.Next()
	if dt < 0 {
		dt = 0
	}
	if cfg.MaxDelta > 0 && dt > cfg.MaxDelta {
		dt = cfg.MaxDelta
	}
	s.sys.Step(dt)
	return dt
}

func (s *Simulator) observe(t float64) {
	for _, m := range s.metrics {
		m.Observe(s.sys, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.sys, t)
	}
}

func (s *Simulator) record(r *Result, t float64) {
	r.Frames = append(r.Frames, dynamo.Frame{
		Version:   s.sys.Version(),
		Positions: s.pool.GetAndCopy(s.sys.Positions()),
	})
	r.Times = append(r.Times, t)
}

func (s *Simulator) pacer(fps int) *time.Ticker {
	if fps <= 0 {
		return nil
	}
	return time.NewTicker(time.Second / time.Duration(fps))
}

func (s *Simulator) wait(ctx context.Context, ticker *time.Ticker) error {
	if ticker == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ticker.C:
		return nil
	}
}
