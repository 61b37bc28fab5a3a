package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBox_Contains(t *testing.T) {
	box := Box{Min: mgl32.Vec3{-1, 0, -1}, Max: mgl32.Vec3{1, 2, 1}}

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"center", mgl32.Vec3{0, 1, 0}, true},
		{"on floor", mgl32.Vec3{0, 0, 0}, true},
		{"on corner", mgl32.Vec3{1, 2, -1}, true},
		{"below floor", mgl32.Vec3{0, -0.001, 0}, false},
		{"outside x", mgl32.Vec3{1.5, 1, 0}, false},
		{"outside z", mgl32.Vec3{0, 1, -1.01}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if c := box.Center(); c != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Center() = %v", c)
	}
}

func TestFrame_CloneAndAt(t *testing.T) {
	f := Frame{Version: 3, Positions: []float32{1, 2, 3, 4, 5, 6}}

	if f.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", f.Count())
	}
	if got := f.At(1); got != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("At(1) = %v", got)
	}

	c := f.Clone()
	c.Positions[0] = 99
	if f.Positions[0] == 99 {
		t.Error("Clone shares the position buffer")
	}
	if c.Version != 3 {
		t.Errorf("Clone version = %d", c.Version)
	}
}

func TestFrame_IsValid(t *testing.T) {
	if !(Frame{Positions: []float32{0, 1, 2}}).IsValid() {
		t.Error("finite frame reported invalid")
	}
	if (Frame{Positions: []float32{0, float32(math.NaN()), 2}}).IsValid() {
		t.Error("NaN frame reported valid")
	}
	if (Frame{Positions: []float32{float32(math.Inf(1))}}).IsValid() {
		t.Error("Inf frame reported valid")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Frame: 150, Time: 1.5, Wrapped: ErrInvalidState}
	want := "frame 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError does not unwrap to ErrInvalidState")
	}
}

func TestBoundsError(t *testing.T) {
	err := BoundsError("collision_damping", 1.5, "(0, 1]")
	if !errors.Is(err, ErrParameterBounds) {
		t.Error("BoundsError does not match ErrParameterBounds")
	}
}
