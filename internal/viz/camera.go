package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"
)

const (
	maxPitch = 1.45
	minDist  = 1.0
	maxDist  = 200.0
	near     = 0.1
	far      = 1000.0
)

// OrbitCamera circles a target point. Orbit and Zoom move goals; Update eases
// the visible angles and distance towards them with critically damped springs.
type OrbitCamera struct {
	Target mgl32.Vec3
	FOV    float32

	yaw, pitch, dist          float64
	yawVel, pitchVel, distVel float64
	goalYaw, goalPitch        float64
	goalDist                  float64

	spring harmonica.Spring
}

func NewOrbitCamera(target mgl32.Vec3, dist float64, fps int) *OrbitCamera {
	return &OrbitCamera{
		Target:    target,
		FOV:       mgl32.DegToRad(45),
		yaw:       0.6,
		pitch:     0.35,
		dist:      dist,
		goalYaw:   0.6,
		goalPitch: 0.35,
		goalDist:  dist,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// CameraFor frames a boundary box from a distance that keeps it in view.
func CameraFor(box dynamo.Box, fps int) *OrbitCamera {
	size := float64(box.Size().Len())
	return NewOrbitCamera(box.Center(), size*1.6, fps)
}

func (c *OrbitCamera) Orbit(dYaw, dPitch float64) {
	c.goalYaw += dYaw
	c.goalPitch = math.Max(-maxPitch, math.Min(maxPitch, c.goalPitch+dPitch))
}

// Zoom scales the goal distance; factors below 1 move closer.
func (c *OrbitCamera) Zoom(factor float64) {
	c.goalDist = math.Max(minDist, math.Min(maxDist, c.goalDist*factor))
}

// Update advances the springs by one frame.
func (c *OrbitCamera) Update() {
	c.yaw, c.yawVel = c.spring.Update(c.yaw, c.yawVel, c.goalYaw)
	c.pitch, c.pitchVel = c.spring.Update(c.pitch, c.pitchVel, c.goalPitch)
	c.dist, c.distVel = c.spring.Update(c.dist, c.distVel, c.goalDist)
}

// Settle jumps straight to the goals.
func (c *OrbitCamera) Settle() {
	c.yaw, c.pitch, c.dist = c.goalYaw, c.goalPitch, c.goalDist
	c.yawVel, c.pitchVel, c.distVel = 0, 0, 0
}

func (c *OrbitCamera) Angles() (yaw, pitch, dist float64) { return c.yaw, c.pitch, c.dist }

func (c *OrbitCamera) Eye() mgl32.Vec3 {
	cp := math.Cos(c.pitch)
	offset := mgl32.Vec3{
		float32(math.Sin(c.yaw) * cp * c.dist),
		float32(math.Sin(c.pitch) * c.dist),
		float32(math.Cos(c.yaw) * cp * c.dist),
	}
	return c.Target.Add(offset)
}

func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	view := mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(c.FOV, aspect, near, far)
	return proj.Mul4(view)
}

// Projector maps world points onto a w x h pixel grid for one camera pose.
type Projector struct {
	vp   mgl32.Mat4
	w, h int
}

func (c *OrbitCamera) Projector(w, h int) Projector {
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	return Projector{vp: c.ViewProjection(aspect), w: w, h: h}
}

// Project returns pixel coordinates of p and whether it lies in front of the
// camera and inside the grid.
func (p Projector) Project(pt mgl32.Vec3) (x, y int, ok bool) {
	clip := p.vp.Mul4x1(pt.Vec4(1))
	if clip.W() <= near {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) / 2 * float32(p.w))
	y = int((1 - ndc.Y()) / 2 * float32(p.h))
	return x, y, x >= 0 && x < p.w && y >= 0 && y < p.h
}

// Line projects both ends of a segment. Segments with an end behind the
// camera are dropped.
func (p Projector) Line(a, b mgl32.Vec3) (x0, y0, x1, y1 int, ok bool) {
	ca := p.vp.Mul4x1(a.Vec4(1))
	cb := p.vp.Mul4x1(b.Vec4(1))
	if ca.W() <= near || cb.W() <= near {
		return 0, 0, 0, 0, false
	}
	// Off-canvas ends are kept; the canvas clips.
	x0, y0, _ = p.Project(a)
	x1, y1, _ = p.Project(b)
	return x0, y0, x1, y1, true
}

// BoxEdges lists the twelve edges of an axis-aligned box.
func BoxEdges(b dynamo.Box) [12][2]mgl32.Vec3 {
	lo, hi := b.Min, b.Max
	v := [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	idx := [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

	var edges [12][2]mgl32.Vec3
	for i, e := range idx {
		edges[i] = [2]mgl32.Vec3{v[e[0]], v[e[1]]}
	}
	return edges
}

func vec3(p []float32) mgl32.Vec3 {
	return mgl32.Vec3{p[0], p[1], p[2]}
}
