package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinitePositive reports whether v is finite and strictly positive.
func IsFinitePositive(v float64) bool {
	return v > 0 && IsFinite(v)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// SemitonesToRatio converts a pitch offset in semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// RatioToSemitones converts a frequency ratio to semitones.
// Returns NaN for non-positive ratios.
func RatioToSemitones(ratio float64) float64 {
	if ratio <= 0 {
		return math.NaN()
	}

	return 12 * math.Log2(ratio)
}
