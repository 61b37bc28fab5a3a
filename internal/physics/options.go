package physics

import (
	"math/rand"

	"github.com/san-kum/partsim/internal/dynamo"
)

type Option func(*ParticleSystem)

// WithRand sets the source used for initial placement and Reset.
func WithRand(r *rand.Rand) Option {
	return func(s *ParticleSystem) { s.rng = r }
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithWorkers splits each step over n goroutines. Values below 2 keep the
// update serial.
func WithWorkers(n int) Option {
	return func(s *ParticleSystem) { s.workers = n }
}

func WithSink(sink dynamo.Sink) Option {
	return func(s *ParticleSystem) { s.sinks = append(s.sinks, sink) }
}
