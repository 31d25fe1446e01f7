package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-voice/control"
	"github.com/cwbudde/algo-voice/device"
	"github.com/cwbudde/algo-voice/dsp/buffer"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/psola"
)

// State is the engine lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Stats are running counters, safe to read at any time.
type Stats struct {
	CaptureCycles uint64
	RenderCycles  uint64
	// Underruns counts render blocks that found too few samples.
	Underruns uint64
	// MissingSamples is the total shortfall across all underruns.
	MissingSamples uint64
	Overruns       uint64
	Faults         uint64
}

// Engine owns both device streams and the pipeline between them.
type Engine struct {
	cfg        config
	log        *slog.Logger
	wavelength float64

	mu    sync.Mutex
	state atomic.Int32

	pitch   *control.Pitch
	ring    *buffer.Ring
	capture device.Stream
	render  device.Stream

	// Capture context only.
	analysis  *psola.Analysis
	synthesis *psola.Synthesis
	lastRatio float64
	capOut    []float32
	capBytes  []byte

	// Render context only.
	renBytes []byte

	captureFailed atomic.Bool
	renderFailed  atomic.Bool

	faults     chan fault
	quit       chan struct{}
	supervisor sync.WaitGroup

	captureCycles  atomic.Uint64
	renderCycles   atomic.Uint64
	underruns      atomic.Uint64
	missingSamples atomic.Uint64
	overruns       atomic.Uint64
	faultCount     atomic.Uint64
	dropped        atomic.Uint64
}

// Start builds the pipeline for the nominal wavelength in samples, opens
// a capture and a render stream on host and starts both. On failure every
// opened stream is released.
func Start(host device.Host, wavelength float64, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if host == nil {
		return nil, fmt.Errorf("%w: nil host", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e, err := newEngine(cfg, wavelength)
	if err != nil {
		return nil, err
	}

	if err := e.open(host); err != nil {
		return nil, err
	}

	e.log.Info("engine started",
		"wavelength", wavelength,
		"sample_rate", cfg.processor.SampleRate,
		"frames_per_buffer", cfg.processor.BlockSize,
		"transport_bytes", e.ring.Cap(),
		"latency", e.Latency(),
		"pitch", cfg.initialPitch,
	)
	return e, nil
}

func newEngine(cfg config, wavelength float64) (*Engine, error) {
	win, err := psola.NewWindow(wavelength, psola.WithShape(cfg.shape))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	block := cfg.processor.BlockSize
	analysis, err := psola.NewAnalysis(win, block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	synthesis, err := psola.NewSynthesis(targetWavelength(wavelength, cfg.initialPitch))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pitch, err := control.NewPitch(cfg.initialPitch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	ring, err := buffer.NewRing(cfg.transportCycles * buffer.Bytes(block))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:        cfg,
		log:        logger.With("component", "engine"),
		wavelength: wavelength,
		pitch:      pitch,
		ring:       ring,
		analysis:   analysis,
		synthesis:  synthesis,
		lastRatio:  cfg.initialPitch,
		capOut:     make([]float32, block),
		capBytes:   make([]byte, buffer.Bytes(block)),
		renBytes:   make([]byte, ring.Cap()),
		faults:     make(chan fault, faultQueue),
		quit:       make(chan struct{}),
	}, nil
}

func (e *Engine) open(host device.Host) error {
	capture, err := host.OpenCapture(e.cfg.captureConfig(), e.onCapture, e.onCaptureError)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenCapture, err)
	}
	render, err := host.OpenRender(e.cfg.renderConfig(), e.onRender, e.onRenderError)
	if err != nil {
		e.release(capture)
		return fmt.Errorf("%w: %w", ErrOpenRender, err)
	}
	e.capture = capture
	e.render = render

	e.supervisor.Add(1)
	go e.supervise()

	if err := capture.Start(); err != nil {
		e.abort()
		return fmt.Errorf("%w: %w", ErrStartCapture, err)
	}
	if err := render.Start(); err != nil {
		e.abort()
		return fmt.Errorf("%w: %w", ErrStartRender, err)
	}

	e.state.Store(int32(StateRunning))
	return nil
}

// abort releases both streams and the supervisor after a failed start.
func (e *Engine) abort() {
	close(e.quit)
	e.supervisor.Wait()
	e.release(e.capture)
	e.release(e.render)
	e.state.Store(int32(StateStopped))
}

func (e *Engine) release(s device.Stream) {
	if err := s.Stop(); err != nil {
		e.log.Warn("stop stream", "err", err)
	}
	if err := s.Close(); err != nil {
		e.log.Warn("close stream", "err", err)
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// Wavelength returns the nominal analysis wavelength in samples.
func (e *Engine) Wavelength() float64 { return e.wavelength }

// Latency returns the pipeline delay, excluding device and transport
// buffering.
func (e *Engine) Latency() time.Duration {
	seconds := psola.Latency(e.wavelength) / e.cfg.processor.SampleRate
	return time.Duration(seconds * float64(time.Second))
}

// Pitch returns the current pitch ratio.
func (e *Engine) Pitch() float64 { return e.pitch.Get() }

// SetPitch sets the pitch ratio. It takes effect at the next capture
// block.
func (e *Engine) SetPitch(ratio float64) error {
	if e.State() != StateRunning {
		return ErrNotRunning
	}
	if err := checkRatio(ratio); err != nil {
		return err
	}
	return e.pitch.Set(ratio)
}

// SetSemitones sets the pitch ratio to 2^(st/12).
func (e *Engine) SetSemitones(st float64) error {
	return e.SetPitch(core.SemitonesToRatio(st))
}

// Stats returns a snapshot of the counters.
func (e *Engine) Stats() Stats {
	return Stats{
		CaptureCycles:  e.captureCycles.Load(),
		RenderCycles:   e.renderCycles.Load(),
		Underruns:      e.underruns.Load(),
		MissingSamples: e.missingSamples.Load(),
		Overruns:       e.overruns.Load(),
		Faults:         e.faultCount.Load(),
	}
}

// Stop stops and closes both streams and joins the supervisor. Closing a
// stream waits for its in-flight callback. A second call returns
// ErrStopped and releases nothing.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.State() {
	case StateStopped:
		return ErrStopped
	case StateUninitialized:
		return ErrNotRunning
	}
	e.state.Store(int32(StateStopped))

	var errs []error
	for _, s := range []device.Stream{e.capture, e.render} {
		if err := s.Stop(); err != nil {
			errs = append(errs, err)
		}
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	close(e.quit)
	e.supervisor.Wait()

	st := e.Stats()
	e.log.Info("engine stopped",
		"capture_cycles", st.CaptureCycles,
		"render_cycles", st.RenderCycles,
		"underruns", st.Underruns,
		"faults", st.Faults,
	)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine: stop: %w", err)
	}
	return nil
}

func targetWavelength(nominal, ratio float64) float64 {
	return math.Max(1, psola.TargetWavelength(nominal, ratio))
}
