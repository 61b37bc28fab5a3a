package export

import (
	"strings"
	"testing"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	box := physics.DefaultParams().Bounds()
	frame := dynamo.Frame{Positions: []float32{
		0, 2.5, 0,
		-2.5, 0, 0,
		2.5, 5, 0,
	}}

	svg := FrameToSVG(frame, box, 200, 200, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("malformed svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 particles, got %d", n)
	}
	// margin 10, scale 36: the centre particle lands mid-image.
	if !strings.Contains(svg, `cx="100.0" cy="100.0"`) {
		t.Errorf("centre particle misplaced:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="10.0" cy="190.0"`) {
		t.Error("floor corner particle misplaced")
	}
	if !strings.Contains(svg, `cx="190.0" cy="10.0"`) {
		t.Error("lid corner particle misplaced")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected size:\n%s", svg)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]analysis.Point{{X: 1, Y: 1}}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}

	pts := []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	svg := TrajectoryToSVG(pts, 120, 60, "#ff0000")
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Error("missing stroke color")
	}
	if n := strings.Count(svg, " L"); n != 2 {
		t.Errorf("expected 2 line segments, got %d", n)
	}
}
