package psola

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cwbudde/algo-voice/dsp/interp"
)

// AnalysisOption configures an Analysis.
type AnalysisOption func(*Analysis)

// WithInterpolation selects how grains are read between integer samples.
// Hermite is the default.
func WithInterpolation(mode interp.Mode) AnalysisOption {
	return func(a *Analysis) {
		a.mode = mode
	}
}

// Analysis accumulates input samples and serves pitch-synchronous grains
// centered on the epochs of its [Window].
//
// History is a power-of-two ring sized for five wavelengths plus one
// block, which is enough for a [Synthesis] that lags the input by at most
// maxBlock samples.
type Analysis struct {
	win     *Window
	mode    interp.Mode
	history []float64
	mask    int64
	count   int64
}

// NewAnalysis creates an analysis stage bound to w. maxBlock is the largest
// number of samples pushed before the matching output is drawn.
func NewAnalysis(w *Window, maxBlock int, opts ...AnalysisOption) (*Analysis, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil window", ErrInvalidWavelength)
	}
	if maxBlock <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlock)
	}

	size := nextPowerOf2(int(math.Ceil(5*w.wavelength)) + maxBlock + 8)
	a := &Analysis{
		win:     w,
		history: make([]float64, size),
		mask:    int64(size - 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a, nil
}

// Window returns the window the analysis advances.
func (a *Analysis) Window() *Window { return a.win }

// Count returns the number of samples pushed so far.
func (a *Analysis) Count() int64 { return a.count }

// Capacity returns the history length in samples.
func (a *Analysis) Capacity() int { return len(a.history) }

// CompleteGrains returns the number of grains whose full span has been
// pushed. Grains 0..CompleteGrains()-1 can be read without clamping.
func (a *Analysis) CompleteGrains() int64 { return a.win.grain }

// PushSample consumes one input sample and advances the window cursor.
func (a *Analysis) PushSample(x float64) {
	a.history[a.count&a.mask] = x
	a.count++
	a.win.Advance()
}

// Push consumes a block of input samples in order.
func (a *Analysis) Push(block []float32) {
	for _, x := range block {
		a.PushSample(float64(x))
	}
}

// At returns the input signal at a fractional sample position. Positions
// before the stream start read as silence, positions past the newest
// sample hold the newest sample.
func (a *Analysis) At(pos float64) float64 {
	fi := math.Floor(pos)
	i := int64(fi)
	t := pos - fi
	if t == 0 {
		return a.sample(i)
	}
	return a.mode.Interpolate(t, a.sample(i-1), a.sample(i), a.sample(i+1), a.sample(i+2))
}

// Grain returns the weighted sample of grain k at offset samples from its
// center epoch.
func (a *Analysis) Grain(k int64, offset float64) float64 {
	w := a.win.Weight(offset)
	if w == 0 {
		return 0
	}
	return w * a.At(float64(k)*a.win.wavelength+offset)
}

// Reset clears the history and rewinds the window cursor.
func (a *Analysis) Reset() {
	for i := range a.history {
		a.history[i] = 0
	}
	a.count = 0
	a.win.Reset()
}

func (a *Analysis) sample(i int64) float64 {
	if i < 0 || a.count == 0 {
		return 0
	}
	if i >= a.count {
		i = a.count - 1
	}
	if i < a.count-int64(len(a.history)) {
		return 0
	}
	return a.history[i&a.mask]
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
