package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeTriangle
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name            string
	ENBW            float64
	HighestSidelobe float64
	CoherentGain    float64
}

var metadataByType = map[Type]Metadata{
	TypeRectangular: {Name: "Rectangular", ENBW: 1.0, HighestSidelobe: -13.3, CoherentGain: 1.0},
	TypeHann:        {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5},
	TypeHamming:     {Name: "Hamming", ENBW: 1.36, HighestSidelobe: -42.7, CoherentGain: 0.54},
	TypeBlackman:    {Name: "Blackman", ENBW: 1.73, HighestSidelobe: -58.1, CoherentGain: 0.42},
	TypeTriangle:    {Name: "Triangle", ENBW: 1.33, HighestSidelobe: -26.5, CoherentGain: 0.5},
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
	invert   bool
}

func defaultConfig() config {
	return config{}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithInvert inverts coefficients (1 - w[n]).
func WithInvert() Option {
	return func(c *config) {
		c.invert = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	Fill(t, out, opts...)

	return out
}

// Fill writes window coefficients into dst without allocating a new slice.
func Fill(t Type, dst []float64, opts ...Option) {
	if len(dst) == 0 {
		return
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	for i := range dst {
		x := samplePosition(i, len(dst), cfg.periodic)
		dst[i] = evalWindow(t, x)
		if cfg.invert {
			dst[i] = 1 - dst[i]
		}
	}
}

// Eval returns the window value at normalized position x in [0,1], where 0
// and 1 are the window edges and 0.5 its center. Positions outside [0,1]
// return 0. Eval does not allocate and is safe for per-sample use.
func Eval(t Type, x float64) float64 {
	if x < 0 || x > 1 || math.IsNaN(x) {
		return 0
	}

	return evalWindow(t, x)
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf), opts...)
	if len(coeffs) != len(buf) {
		return
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func evalWindow(t Type, x float64) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeTriangle:
		return triangleAt(x)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0.5
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func triangleAt(x float64) float64 {
	if x <= 0.5 {
		return 2 * x
	}

	return 2 * (1 - x)
}
