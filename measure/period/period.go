package period

import (
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	defaultMinLag    = 2
	defaultThreshold = 0.9
)

// Config holds estimator parameters. Zero values select defaults.
type Config struct {
	// MinLag and MaxLag bound the searched period in samples. MaxLag
	// defaults to half the frame length and is capped there.
	MinLag int
	MaxLag int
	// Threshold is the fraction of the strongest peak the first accepted
	// peak must reach.
	Threshold float64
	// SampleRate converts the period to Hz in [Result.Frequency].
	SampleRate float64
}

// Result holds an estimate.
type Result struct {
	// Period in samples, fractional.
	Period float64
	// Frequency in Hz, zero when no sample rate was configured.
	Frequency float64
	// Clarity is the normalized autocorrelation at the chosen peak, near 1
	// for strictly periodic input.
	Clarity float64
}

// Estimator computes period estimates and reuses its FFT plan and scratch
// buffers between calls with the same frame length.
type Estimator struct {
	cfg Config

	size int
	plan *algofft.Plan[complex128]

	frame  []float64
	coeffs []float64
	spec   []complex128
	tmp    []complex128
	re, im []float64
	power  []float64
	winAC  []float64
	sigAC  []float64
}

// NewEstimator creates an estimator with cfg.
func NewEstimator(cfg Config) *Estimator {
	if cfg.MinLag <= 0 {
		cfg.MinLag = defaultMinLag
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = defaultThreshold
	}
	return &Estimator{cfg: cfg}
}

// Estimate is a one-shot estimate of the period of x.
func Estimate(x []float64, cfg Config) (Result, error) {
	return NewEstimator(cfg).Estimate(x)
}

// Estimate returns the fundamental period of x.
func (e *Estimator) Estimate(x []float64) (Result, error) {
	n := len(x)
	minLag := e.cfg.MinLag
	maxLag := e.cfg.MaxLag
	if e.cfg.MaxLag > 0 {
		if err := validateLagRange(minLag, maxLag); err != nil {
			return Result{}, err
		}
	}
	if n/2 <= minLag {
		return Result{}, fmt.Errorf("%w: %d samples for min lag %d", ErrShortSignal, n, minLag)
	}
	if maxLag <= 0 || maxLag > n/2 {
		maxLag = n / 2
	}

	if err := e.prepare(n); err != nil {
		return Result{}, err
	}

	mean := vecmath.Sum(x) / float64(n)
	for i, v := range x {
		e.frame[i] = v - mean
	}
	if err := window.ApplyCoefficientsInPlace(e.frame, e.coeffs); err != nil {
		return Result{}, fmt.Errorf("period: %w", err)
	}

	if energy := vecmath.DotProduct(e.frame, e.frame); energy < 1e-20 {
		return Result{}, ErrNoPeriod
	}

	if err := e.autocorrelate(e.sigAC, e.frame); err != nil {
		return Result{}, err
	}

	r := func(lag int) float64 {
		return (e.sigAC[lag] / e.sigAC[0]) / (e.winAC[lag] / e.winAC[0])
	}

	best := math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		best = math.Max(best, r(lag))
	}
	if best <= 0 {
		return Result{}, ErrNoPeriod
	}

	limit := e.cfg.Threshold * best
	for lag := minLag + 1; lag < maxLag; lag++ {
		a, b, c := r(lag-1), r(lag), r(lag+1)
		if b < limit || b <= a || b < c {
			continue
		}

		delta := 0.0
		if den := a - 2*b + c; den != 0 {
			delta = core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
		}
		res := Result{
			Period:  float64(lag) + delta,
			Clarity: b - 0.25*(a-c)*delta,
		}
		if e.cfg.SampleRate > 0 {
			res.Frequency = e.cfg.SampleRate / res.Period
		}
		return res, nil
	}

	return Result{}, ErrNoPeriod
}

func (e *Estimator) prepare(n int) error {
	size := 1 << bits.Len(uint(2*n-1))
	if e.plan == nil || e.size != size || len(e.frame) != n {
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return fmt.Errorf("period: fft plan: %w", err)
		}
		e.plan = plan
		e.size = size
		coeffs, err := window.Hann(n)
		if err != nil {
			return fmt.Errorf("period: %w", err)
		}
		e.frame = make([]float64, n)
		e.coeffs = coeffs
		e.spec = make([]complex128, size)
		e.tmp = make([]complex128, size)
		e.re = core.EnsureLen(e.re, size)
		e.im = core.EnsureLen(e.im, size)
		e.power = core.EnsureLen(e.power, size)
		e.sigAC = core.EnsureLen(e.sigAC, size)
		e.winAC = core.EnsureLen(e.winAC, size)
		if err := e.autocorrelate(e.winAC, e.coeffs); err != nil {
			return err
		}
	}
	return nil
}

// autocorrelate writes the linear autocorrelation of src into dst[:len(dst)]
// using a zero-padded FFT of the estimator's size.
func (e *Estimator) autocorrelate(dst, src []float64) error {
	for i := range e.tmp {
		v := 0.0
		if i < len(src) {
			v = src[i]
		}
		e.tmp[i] = complex(v, 0)
	}
	if err := e.plan.Forward(e.spec, e.tmp); err != nil {
		return fmt.Errorf("period: forward fft: %w", err)
	}
	for i, c := range e.spec {
		e.re[i] = real(c)
		e.im[i] = imag(c)
	}
	vecmath.Power(e.power, e.re, e.im)
	for i, p := range e.power {
		e.spec[i] = complex(p, 0)
	}
	if err := e.plan.Inverse(e.tmp, e.spec); err != nil {
		return fmt.Errorf("period: inverse fft: %w", err)
	}
	for i := range dst {
		dst[i] = real(e.tmp[i])
	}
	return nil
}
