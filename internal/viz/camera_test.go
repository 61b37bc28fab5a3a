package viz

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/physics"
)

func TestProjectTargetAtCenter(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 2.5, 0}, 10, 60)
	proj := cam.Projector(120, 80)

	x, y, ok := proj.Project(cam.Target)
	if !ok {
		t.Fatal("target should be visible")
	}
	if absInt(x-60) > 1 || absInt(y-40) > 1 {
		t.Errorf("expected target near (60,40), got (%d,%d)", x, y)
	}

	_, above, ok := proj.Project(cam.Target.Add(mgl32.Vec3{0, 1, 0}))
	if !ok || above >= y {
		t.Errorf("point above target should project higher, got y=%d vs %d", above, y)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{}, 10, 60)
	eye := cam.Eye()
	behind := eye.Add(eye.Normalize().Mul(5))

	if _, _, ok := cam.Projector(100, 100).Project(behind); ok {
		t.Error("point behind the camera must not be visible")
	}
}

func TestLineKeepsOffCanvasEnds(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{}, 10, 60)
	proj := cam.Projector(100, 100)
	side := cam.Eye().Cross(mgl32.Vec3{0, 1, 0}).Normalize().Mul(50)

	if _, _, ok := proj.Project(side); ok {
		t.Fatal("expected the far end to fall off the grid")
	}
	x0, y0, _, _, ok := proj.Line(mgl32.Vec3{}, side)
	if !ok {
		t.Fatal("segment in front of the camera should be kept")
	}
	if absInt(x0-50) > 1 || absInt(y0-50) > 1 {
		t.Errorf("expected the near end near (50,50), got (%d,%d)", x0, y0)
	}
}

func TestOrbitCameraSprings(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{}, 10, 60)
	yaw0, pitch0, _ := cam.Angles()

	cam.Orbit(0.5, 10)
	cam.Zoom(0.5)

	cam.Update()
	yaw1, _, _ := cam.Angles()
	if yaw1 == yaw0 || yaw1 >= yaw0+0.5 {
		t.Errorf("expected partial progress after one update, got %f", yaw1)
	}

	for i := 0; i < 600; i++ {
		cam.Update()
	}
	yaw, pitch, dist := cam.Angles()
	if math.Abs(yaw-(yaw0+0.5)) > 1e-3 {
		t.Errorf("yaw did not settle: %f", yaw)
	}
	if math.Abs(pitch-maxPitch) > 1e-3 || pitch0 >= pitch {
		t.Errorf("pitch should clamp to %f, got %f", maxPitch, pitch)
	}
	if math.Abs(dist-5) > 1e-3 {
		t.Errorf("expected distance 5, got %f", dist)
	}
}

func TestZoomLimits(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{}, 10, 60)
	for i := 0; i < 100; i++ {
		cam.Zoom(0.5)
	}
	cam.Settle()
	if _, _, d := cam.Angles(); d != minDist {
		t.Errorf("expected min distance %f, got %f", minDist, d)
	}
}

func TestBoxEdges(t *testing.T) {
	box := physics.DefaultParams().Bounds()
	edges := BoxEdges(box)

	for i, e := range edges {
		d := e[1].Sub(e[0])
		nonZero := 0
		for a := 0; a < 3; a++ {
			if d[a] != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Errorf("edge %d is not axis-aligned: %v", i, d)
		}
		if !box.Contains(e[0]) || !box.Contains(e[1]) {
			t.Errorf("edge %d leaves the box", i)
		}
	}
}

func TestRenderFrame(t *testing.T) {
	box := physics.DefaultParams().Bounds()
	cam := CameraFor(box, 60)
	c := NewCanvas(40, 20)

	RenderFrame(c, cam, box, nil)
	edgesOnly := litCount(c)
	if edgesOnly == 0 {
		t.Fatal("box wireframe should light some dots")
	}

	RenderFrame(c, cam, box, []float32{0, 2.5, 0})
	w, h := c.Dots()
	x, y, ok := cam.Projector(w, h).Project(mgl32.Vec3{0, 2.5, 0})
	if !ok || !c.Lit(x, y) {
		t.Error("particle at the box center should be drawn")
	}
}

func litCount(c *Canvas) int {
	w, h := c.Dots()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Lit(x, y) {
				n++
			}
		}
	}
	return n
}
