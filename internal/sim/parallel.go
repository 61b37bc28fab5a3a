package sim

import (
	"context"
	"sync"

	"github.com/san-kum/partsim/internal/dynamo"
)

// Factory builds an independent system and clock for one ensemble member.
type Factory func(seed int64) (dynamo.System, dynamo.Clock, []dynamo.Metric)

// Ensemble runs several seeded systems concurrently. Each member owns its
// system, so no state is shared between goroutines.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sys, clock, metrics := e.factory(e.seedStart + int64(idx))
			s := New(sys, clock)
			for _, m := range metrics {
				s.AddMetric(m)
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
