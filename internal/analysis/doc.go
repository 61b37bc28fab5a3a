// Package analysis turns recorded particle trajectories into signals and
// summaries.
//
//   - [HeightSeries]: the y coordinate of one particle, or the mean, per frame
//   - [PowerSpectrum]: windowed FFT power of a uniformly sampled signal
//   - [GeneratePhasePortrait]: height against vertical velocity
//   - [ApexHeights]: heights at which a particle turns from rising to falling
//
// # Bounce frequency
//
// A single dropped particle bounces with a period that shrinks with every
// damped collision, so the spectrum of its height smears towards higher
// frequencies:
//
//	signal := analysis.HeightSeries(frames, 0)
//	spec := analysis.PowerSpectrum(signal, 60)
//	f := spec.DominantFrequency()
package analysis
