package psola

import "github.com/cwbudde/algo-voice/dsp/window"

const (
	// MinWavelength is the shortest accepted pitch period in samples.
	MinWavelength = 2.0
	// MaxWavelength is the longest accepted pitch period in samples.
	MaxWavelength = 65536.0
)

// Shape selects the grain taper. Both shapes sum to one when grains of
// half-width W are spaced W apart.
type Shape int

const (
	// ShapeTriangle is the alternating hat: a linear rise and fall.
	ShapeTriangle Shape = iota
	// ShapeHann is a raised-cosine taper.
	ShapeHann
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeHann:
		return "hann"
	default:
		return "unknown"
	}
}

func (s Shape) windowType() window.Type {
	if s == ShapeHann {
		return window.TypeHann
	}
	return window.TypeTriangle
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithShape selects the grain taper.
func WithShape(s Shape) WindowOption {
	return func(w *Window) {
		if s == ShapeTriangle || s == ShapeHann {
			w.shape = s
		}
	}
}

// Window defines grain shape and nominal pitch period, and carries the
// epoch cursor advanced by [Analysis].
//
// Grain k is centered on epoch k*W and spans (k*W - W, k*W + W).
// Consecutive grains overlap by half, so every sample belongs to the rising
// half of one grain and the falling half of the previous one. Polarity
// flips on every boundary so the two can be told apart.
type Window struct {
	wavelength float64
	shape      Shape
	kind       window.Type

	phase    float64
	grain    int64
	polarity bool
}

// NewWindow creates a window for the given nominal wavelength in samples.
// The wavelength may be fractional.
func NewWindow(wavelength float64, opts ...WindowOption) (*Window, error) {
	if err := validateWavelength(wavelength); err != nil {
		return nil, err
	}

	w := &Window{wavelength: wavelength}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.kind = w.shape.windowType()

	return w, nil
}

// Wavelength returns the nominal wavelength in samples.
func (w *Window) Wavelength() float64 { return w.wavelength }

// Shape returns the grain taper.
func (w *Window) Shape() Shape { return w.shape }

// Phase returns the cursor position relative to the latest epoch, in [0, W).
func (w *Window) Phase() float64 { return w.phase }

// Grain returns the number of epoch boundaries crossed so far.
func (w *Window) Grain() int64 { return w.grain }

// Polarity alternates on every crossed boundary.
func (w *Window) Polarity() bool { return w.polarity }

// Weight returns the grain weight at offset samples from a grain center.
// It is zero for |offset| >= W.
func (w *Window) Weight(offset float64) float64 {
	if offset <= -w.wavelength || offset >= w.wavelength {
		return 0
	}
	return window.Eval(w.kind, (offset+w.wavelength)/(2*w.wavelength))
}

// Advance moves the cursor by one sample and reports whether an epoch
// boundary was crossed.
func (w *Window) Advance() bool {
	w.phase++
	if w.phase < w.wavelength {
		return false
	}
	w.phase -= w.wavelength
	w.grain++
	w.polarity = !w.polarity
	return true
}

// Reset rewinds the cursor to the first epoch.
func (w *Window) Reset() {
	w.phase = 0
	w.grain = 0
	w.polarity = false
}
