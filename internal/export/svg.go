package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// FrameToSVG draws a side view of one frame: x to the right, y up, z
// dropped. The boundary box fills the image with a small margin.
func FrameToSVG(frame dynamo.Frame, box dynamo.Box, width, height int, radius float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)

	margin := 0.05 * float64(min(width, height))
	size := box.Size()
	sx := (float64(width) - 2*margin) / float64(size.X())
	sy := (float64(height) - 2*margin) / float64(size.Y())
	scale := min(sx, sy)

	toScreen := func(x, y float32) (float64, float64) {
		px := margin + float64(x-box.Min.X())*scale
		py := float64(height) - margin - float64(y-box.Min.Y())*scale
		return px, py
	}

	x0, y0 := toScreen(box.Min.X(), box.Max.Y())
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#4a6fa5" stroke-width="1"/>
`, x0, y0, float64(size.X())*scale, float64(size.Y())*scale)

	sb.WriteString(`<g fill="#9be7ff">
`)
	for i := 0; i < frame.Count(); i++ {
		p := frame.At(i)
		cx, cy := toScreen(p.X(), p.Y())
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, radius)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dw, dh := canvas.Dots()
	w, h := int(float64(dw)*scale), int(float64(dh)*scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	sb.WriteString(`<g fill="#00ff00">
`)

	dotRadius := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws points as a single polyline scaled to fit.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
