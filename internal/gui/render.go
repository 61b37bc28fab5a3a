package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Above this many particles spheres are drawn with fewer rings.
const detailLimit = 2000

// upload copies the published positions into the instance buffer and
// acknowledges the frame.
func (a *App) upload() {
	pos := a.Sys.Positions()
	if len(a.instances) != len(pos)/3 {
		a.instances = make([]rl.Vector3, len(pos)/3)
	}
	for i := range a.instances {
		a.instances[i] = rl.NewVector3(pos[i*3], pos[i*3+1], pos[i*3+2])
	}
	a.uploaded = a.Sys.Version()
	a.Sys.MarkUploaded()
}

func (a *App) drawSim() {
	rl.BeginMode3D(a.Camera)
	a.drawBox()
	a.drawParticles()
	rl.EndMode3D()
}

func (a *App) drawBox() {
	box := a.Sys.Bounds()
	size := box.Size()
	rl.DrawCubeWires(toRaylib(box.Center()), size[0], size[1], size[2], ColBox)
}

func (a *App) drawParticles() {
	rings, slices := int32(8), int32(8)
	if len(a.instances) > detailLimit {
		rings, slices = 3, 4
	}

	box := a.Sys.Bounds()
	height := box.Max[1] - box.Min[1]
	for _, p := range a.instances {
		// brighter towards the ceiling
		shade := uint8(120)
		if height > 0 {
			shade += uint8(135 * clamp01((p.Y-box.Min[1])/height))
		}
		rl.DrawSphereEx(p, a.Opts.Radius, rings, slices, rl.NewColor(shade, shade, shade, 255))
	}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
