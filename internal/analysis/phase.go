package analysis

import (
	"strings"

	"github.com/san-kum/partsim/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D holds height against vertical velocity for one particle.
type PhasePortrait2D struct {
	Particle int
	Points   []Point
}

// GeneratePhasePortrait pairs each recorded height of particle i with the
// vertical velocity estimated from the previous frame.
func GeneratePhasePortrait(frames []dynamo.Frame, times []float64, i int) *PhasePortrait2D {
	if len(frames) < 2 || len(times) != len(frames) || i < 0 || i >= frames[0].Count() {
		return nil
	}

	portrait := &PhasePortrait2D{
		Particle: i,
		Points:   make([]Point, 0, len(frames)-1),
	}

	prev := float64(frames[0].Positions[i*3+1])
	for k := 1; k < len(frames); k++ {
		y := float64(frames[k].Positions[i*3+1])
		dt := times[k] - times[k-1]
		if dt <= 0 {
			prev = y
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: y, Y: (y - prev) / dt})
		prev = y
	}

	return portrait
}

// ApexHeights records the height of particle i each time it stops rising.
// With damping below one the sequence shrinks geometrically.
func ApexHeights(frames []dynamo.Frame, i int) []float64 {
	ys := HeightSeries(frames, i)
	apexes := make([]float64, 0)
	for k := 1; k+1 < len(ys); k++ {
		if ys[k] > ys[k-1] && ys[k] >= ys[k+1] {
			apexes = append(apexes, ys[k])
		}
	}
	return apexes
}

// PhasePortraitToASCII converts phase portrait to ASCII art.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Zero velocity line
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
