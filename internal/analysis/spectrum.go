package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/partsim/internal/dynamo"
)

type Spectrum struct {
	Freqs []float64
	Power []float64
}

// HeightSeries extracts the y coordinate of particle i from each frame. A
// negative index averages over all particles.
func HeightSeries(frames []dynamo.Frame, i int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		n := f.Count()
		switch {
		case i >= 0 && i < n:
			out = append(out, float64(f.Positions[i*3+1]))
		case i < 0 && n > 0:
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += float64(f.Positions[j*3+1])
			}
			out = append(out, sum/float64(n))
		default:
			out = append(out, 0)
		}
	}
	return out
}

// PowerSpectrum returns the one-sided power of signal after removing its mean
// and applying a Hann window. sampleRate is in samples per second.
func PowerSpectrum(signal []float64, sampleRate float64) *Spectrum {
	n := len(signal)
	if n < 2 || sampleRate <= 0 {
		return &Spectrum{}
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range signal {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	coeffs := fft.FFTReal(windowed)

	half := n/2 + 1
	spec := &Spectrum{
		Freqs: make([]float64, half),
		Power: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		mag := cmplx.Abs(coeffs[k])
		spec.Freqs[k] = float64(k) * sampleRate / float64(n)
		spec.Power[k] = mag * mag / float64(n)
	}
	return spec
}

// DominantFrequency returns the frequency of the strongest non-DC bin.
func (s *Spectrum) DominantFrequency() float64 {
	best, bestPower := 0.0, 0.0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > bestPower {
			best, bestPower = s.Freqs[k], s.Power[k]
		}
	}
	return best
}
