package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the position buffer as published after a step: three float32
// components per particle.
type Frame struct {
	Version   uint64
	Positions []float32
}

func (f Frame) Count() int { return len(f.Positions) / 3 }

func (f Frame) At(i int) mgl32.Vec3 {
	return mgl32.Vec3{f.Positions[i*3], f.Positions[i*3+1], f.Positions[i*3+2]}
}

// Clone returns a Frame whose Positions are detached from the publisher.
func (f Frame) Clone() Frame {
	p := make([]float32, len(f.Positions))
	copy(p, f.Positions)
	return Frame{Version: f.Version, Positions: p}
}

// IsValid reports whether every component is finite.
func (f Frame) IsValid() bool {
	return Finite(f.Positions)
}

func Finite(buf []float32) bool {
	for _, v := range buf {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

// Box is a closed axis-aligned region.
type Box struct {
	Min, Max mgl32.Vec3
}

func (b Box) Contains(p mgl32.Vec3) bool {
	for a := 0; a < 3; a++ {
		if p[a] < b.Min[a] || p[a] > b.Max[a] {
			return false
		}
	}
	return true
}

func (b Box) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

func (b Box) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

type Sink interface {
	Publish(f Frame)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(f Frame)

func (fn SinkFunc) Publish(f Frame) { fn(f) }

type Stepper interface {
	Step(dt float32)
}

type View interface {
	Count() int
	Position(i int) mgl32.Vec3
	Velocity(i int) mgl32.Vec3
	Gravity() float32
	Bounds() Box
	Collisions() int
}

// System is a steppable particle set that publishes frames.
type System interface {
	Stepper
	View
	Positions() []float32
	Version() uint64
}

type Clock interface {
	Next() float32
}

type Metric interface {
	Name() string
	Observe(v View, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(v View, t float64)
}
