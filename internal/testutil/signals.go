package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Harmonics generates a band-limited sawtooth-like periodic signal: the
// first n harmonics of freqHz with 1/h amplitudes, scaled so the peak stays
// below amplitude. Unlike a pure sine it has energy at every harmonic,
// which grain-based pitch shifting needs to produce a shifted fundamental.
func Harmonics(freqHz, sampleRate, amplitude float64, n, length int) []float64 {
	out := make([]float64, length)
	if n <= 0 {
		return out
	}
	norm := 0.0
	for h := 1; h <= n; h++ {
		norm += 1 / float64(h)
	}
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		v := 0.0
		for h := 1; h <= n; h++ {
			v += math.Sin(step*float64(h*i)) / float64(h)
		}
		out[i] = amplitude * v / norm
	}
	return out
}

// PeriodicPulse generates a unit pulse every period samples, starting at
// sample 0.
func PeriodicPulse(period, length int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for i := 0; i < length; i += period {
		out[i] = 1
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// ToFloat32 converts a float64 signal to device-boundary float32 samples.
func ToFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}

// ToFloat64 converts float32 samples back to float64.
func ToFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
