package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

func TestPowerSpectrumSine(t *testing.T) {
	const rate = 64.0
	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = 3 + math.Sin(2*math.Pi*4*float64(i)/rate)
	}

	spec := PowerSpectrum(signal, rate)
	if len(spec.Freqs) != 129 {
		t.Fatalf("expected 129 bins, got %d", len(spec.Freqs))
	}
	if f := spec.DominantFrequency(); math.Abs(f-4) > 1e-9 {
		t.Errorf("expected dominant frequency 4Hz, got %f", f)
	}
	if spec.Power[0] > 1e-6 {
		t.Errorf("expected mean removed, DC power %g", spec.Power[0])
	}
}

func TestPowerSpectrumDegenerate(t *testing.T) {
	if spec := PowerSpectrum([]float64{1}, 60); len(spec.Power) != 0 {
		t.Error("expected empty spectrum for a single sample")
	}
	if spec := PowerSpectrum([]float64{1, 2, 3}, 0); len(spec.Power) != 0 {
		t.Error("expected empty spectrum for zero sample rate")
	}
	if f := (&Spectrum{}).DominantFrequency(); f != 0 {
		t.Errorf("expected 0, got %f", f)
	}
}

func TestHeightSeries(t *testing.T) {
	frames := []dynamo.Frame{
		{Positions: []float32{0, 1, 0, 0, 3, 0}},
		{Positions: []float32{0, 2, 0, 0, 4, 0}},
	}

	if got := HeightSeries(frames, 1); got[0] != 3 || got[1] != 4 {
		t.Errorf("particle 1: got %v", got)
	}
	if got := HeightSeries(frames, -1); got[0] != 2 || got[1] != 3 {
		t.Errorf("mean: got %v", got)
	}
	if got := HeightSeries(frames, 5); got[0] != 0 {
		t.Errorf("out of range: got %v", got)
	}
}

func dropRun(t *testing.T, frames int) *sim.Result {
	t.Helper()
	sys := physics.New(1, 5, 9.81, 0.8, physics.WithSeed(1))
	sys.SetParticle(0, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{})
	result, err := sim.New(sys, sim.Fixed(1.0/240)).Run(context.Background(), sim.Config{Frames: frames})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestApexHeightsDecay(t *testing.T) {
	result := dropRun(t, 240*6)

	apexes := ApexHeights(result.Frames, 0)
	if len(apexes) < 3 {
		t.Fatalf("expected several bounces, got %v", apexes)
	}
	for k := 1; k < 3; k++ {
		if apexes[k] >= apexes[k-1] {
			t.Errorf("apex %d (%f) not below apex %d (%f)", k, apexes[k], k-1, apexes[k-1])
		}
	}
	// Energy scales by damping^2 per bounce.
	if ratio := apexes[0] / 5; math.Abs(ratio-0.64) > 0.05 {
		t.Errorf("expected first apex near 0.64 of drop height, ratio %f", ratio)
	}
}

func TestPhasePortrait(t *testing.T) {
	result := dropRun(t, 240)

	portrait := GeneratePhasePortrait(result.Frames, result.Times, 0)
	if portrait == nil {
		t.Fatal("expected portrait")
	}
	if len(portrait.Points) != len(result.Frames)-1 {
		t.Errorf("expected %d points, got %d", len(result.Frames)-1, len(portrait.Points))
	}
	if portrait.Points[0].Y >= 0 {
		t.Errorf("expected falling velocity at start, got %f", portrait.Points[0].Y)
	}

	art := PhasePortraitToASCII(portrait, 40, 10)
	if lines := strings.Count(art, "\n"); lines != 10 {
		t.Errorf("expected 10 rows, got %d", lines)
	}
	if !strings.ContainsRune(art, '•') {
		t.Error("expected plotted points")
	}

	if GeneratePhasePortrait(result.Frames, result.Times, 3) != nil {
		t.Error("expected nil for unknown particle")
	}
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("expected empty art for nil portrait")
	}
}
