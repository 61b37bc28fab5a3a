package physics

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"
)

// minChunk keeps tiny systems on the calling goroutine.
const minChunk = 256

// ParticleSystem advances a fixed set of point masses under constant gravity
// inside a damped boundary box.
type ParticleSystem struct {
	params Params
	lo, hi mgl32.Vec3

	positions  []float32
	velocities []float32
	published  []float32

	version    uint64
	dirty      bool
	collisions int

	rng     *rand.Rand
	workers int
	sinks   []dynamo.Sink
}

// New allocates count particles, scatters them over the x/y extent of the box
// at z = 0 and leaves them at rest. Damping and size are taken as given;
// use NewFromParams to validate them first.
func New(count int, squareSize, gravity, collisionDamping float32, opts ...Option) *ParticleSystem {
	if count < 0 {
		count = 0
	}
	p := Params{
		Count:            count,
		SquareSize:       squareSize,
		Gravity:          gravity,
		CollisionDamping: collisionDamping,
	}
	box := p.Bounds()

	s := &ParticleSystem{
		params:     p,
		lo:         box.Min,
		hi:         box.Max,
		positions:  make([]float32, count*3),
		velocities: make([]float32, count*3),
		published:  make([]float32, count*3),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.scatter()
	copy(s.published, s.positions)
	return s
}

// NewFromParams validates p before constructing the system.
func NewFromParams(p Params, opts ...Option) (*ParticleSystem, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("new particle system: %w", err)
	}
	return New(p.Count, p.SquareSize, p.Gravity, p.CollisionDamping, opts...), nil
}

func (s *ParticleSystem) scatter() {
	size := s.params.SquareSize
	for i := 0; i < s.params.Count; i++ {
		s.positions[i*3] = (s.rng.Float32() - 0.5) * size
		s.positions[i*3+1] = s.rng.Float32() * size
		s.positions[i*3+2] = 0

		s.velocities[i*3] = 0
		s.velocities[i*3+1] = 0
		s.velocities[i*3+2] = 0
	}
}

// Step advances every particle by dt seconds, then publishes once.
func (s *ParticleSystem) Step(dt float32) {
	n := s.params.Count
	if s.workers > 1 {
		var hits atomic.Int64
		dynamo.ParallelFor(n, s.workers, minChunk, func(start, end int) {
			hits.Add(int64(s.advance(start, end, dt)))
		})
		s.collisions = int(hits.Load())
	} else {
		s.collisions = s.advance(0, n, dt)
	}
	s.publish()
}

func (s *ParticleSystem) advance(start, end int, dt float32) int {
	hits := 0
	for i := start; i < end; i++ {
		s.applyGravity(i, dt)
		s.move(i, dt)
		hits += s.resolveCollisions(i)
	}
	return hits
}

func (s *ParticleSystem) applyGravity(i int, dt float32) {
	s.velocities[i*3+1] -= s.params.Gravity * dt
}

func (s *ParticleSystem) move(i int, dt float32) {
	j := i * 3
	s.positions[j] += s.velocities[j] * dt
	s.positions[j+1] += s.velocities[j+1] * dt
	s.positions[j+2] += s.velocities[j+2] * dt
}

// resolveCollisions clamps each axis independently and returns how many axes
// were clamped.
func (s *ParticleSystem) resolveCollisions(i int) int {
	hits := 0
	for a := 0; a < 3; a++ {
		j := i*3 + a
		if s.positions[j] < s.lo[a] {
			s.positions[j] = s.lo[a]
			s.velocities[j] *= -s.params.CollisionDamping
			hits++
		} else if s.positions[j] > s.hi[a] {
			s.positions[j] = s.hi[a]
			s.velocities[j] *= -s.params.CollisionDamping
			hits++
		}
	}
	return hits
}

func (s *ParticleSystem) publish() {
	copy(s.published, s.positions)
	s.version++
	s.dirty = true

	f := dynamo.Frame{Version: s.version, Positions: s.published}
	for _, sink := range s.sinks {
		sink.Publish(f)
	}
}

// Reset scatters the particles again from the system's random source and
// publishes the new layout.
func (s *ParticleSystem) Reset() {
	s.scatter()
	s.collisions = 0
	s.publish()
}

// Subscribe registers a sink that receives one frame per step.
func (s *ParticleSystem) Subscribe(sink dynamo.Sink) {
	s.sinks = append(s.sinks, sink)
}

// Positions returns the published position buffer. Callers must not modify
// it; its contents change on the next Step.
func (s *ParticleSystem) Positions() []float32 { return s.published }

// CopyPositions appends the live position buffer to dst[:0].
func (s *ParticleSystem) CopyPositions(dst []float32) []float32 {
	return append(dst[:0], s.positions...)
}

func (s *ParticleSystem) CopyVelocities(dst []float32) []float32 {
	return append(dst[:0], s.velocities...)
}

// Version counts publications since construction.
func (s *ParticleSystem) Version() uint64 { return s.version }

// NeedsUpdate reports whether a frame was published since the last
// MarkUploaded.
func (s *ParticleSystem) NeedsUpdate() bool { return s.dirty }

func (s *ParticleSystem) MarkUploaded() { s.dirty = false }

func (s *ParticleSystem) Count() int         { return s.params.Count }
func (s *ParticleSystem) Params() Params     { return s.params }
func (s *ParticleSystem) Gravity() float32   { return s.params.Gravity }
func (s *ParticleSystem) Bounds() dynamo.Box { return dynamo.Box{Min: s.lo, Max: s.hi} }

// Collisions returns the number of axis clamps performed by the last Step.
func (s *ParticleSystem) Collisions() int { return s.collisions }

func (s *ParticleSystem) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{s.positions[i*3], s.positions[i*3+1], s.positions[i*3+2]}
}

func (s *ParticleSystem) Velocity(i int) mgl32.Vec3 {
	return mgl32.Vec3{s.velocities[i*3], s.velocities[i*3+1], s.velocities[i*3+2]}
}

// SetParticle overwrites the state of particle i. The published view picks
// up the new position but the version is not bumped and sinks are not
// notified. The position may lie outside the box; the next Step will clamp it.
func (s *ParticleSystem) SetParticle(i int, pos, vel mgl32.Vec3) {
	copy(s.positions[i*3:i*3+3], pos[:])
	copy(s.published[i*3:i*3+3], pos[:])
	copy(s.velocities[i*3:i*3+3], vel[:])
}

var _ dynamo.System = (*ParticleSystem)(nil)
