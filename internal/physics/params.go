package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"
)

const (
	DefaultCount            = 100
	DefaultSquareSize       = 5.0
	DefaultGravity          = 9.81
	DefaultCollisionDamping = 0.8
)

// Params are the construction-time constants of a ParticleSystem.
type Params struct {
	Count            int
	SquareSize       float32
	Gravity          float32
	CollisionDamping float32
}

func DefaultParams() Params {
	return Params{
		Count:            DefaultCount,
		SquareSize:       DefaultSquareSize,
		Gravity:          DefaultGravity,
		CollisionDamping: DefaultCollisionDamping,
	}
}

// Validate rejects parameters that would make the box degenerate or let a
// bounce add energy.
func (p Params) Validate() error {
	if p.Count < 0 {
		return dynamo.BoundsError("count", float64(p.Count), ">= 0")
	}
	if !finite(p.SquareSize) || p.SquareSize <= 0 {
		return dynamo.BoundsError("square_size", float64(p.SquareSize), "> 0")
	}
	if !finite(p.Gravity) || p.Gravity < 0 {
		return dynamo.BoundsError("gravity", float64(p.Gravity), ">= 0")
	}
	if !finite(p.CollisionDamping) || p.CollisionDamping <= 0 || p.CollisionDamping > 1 {
		return dynamo.BoundsError("collision_damping", float64(p.CollisionDamping), "in (0, 1]")
	}
	return nil
}

// Bounds returns the closed boundary box.
func (p Params) Bounds() dynamo.Box {
	half := p.SquareSize / 2
	return dynamo.Box{
		Min: mgl32.Vec3{-half, 0, -half},
		Max: mgl32.Vec3{half, p.SquareSize, half},
	}
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
