package engine

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-voice/device"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/psola"
)

const (
	// MinPitchRatio is the lowest ratio accepted by SetPitch.
	MinPitchRatio = 0.25
	// MaxPitchRatio is the highest ratio accepted by SetPitch.
	MaxPitchRatio = 4.0

	defaultTransportCycles = 8
	minTransportCycles     = 2
)

// UnderrunPolicy selects what the render side plays for samples missing
// from the transport.
type UnderrunPolicy int

const (
	// UnderrunSilence zero-fills the missing tail of the block.
	UnderrunSilence UnderrunPolicy = iota
	// UnderrunHold leaves the missing tail untouched, replaying whatever
	// the backend left in the buffer.
	UnderrunHold
)

// String returns the policy name.
func (p UnderrunPolicy) String() string {
	switch p {
	case UnderrunSilence:
		return "silence"
	case UnderrunHold:
		return "hold"
	default:
		return fmt.Sprintf("UnderrunPolicy(%d)", int(p))
	}
}

type config struct {
	processor       core.ProcessorConfig
	transportCycles int
	underrun        UnderrunPolicy
	shape           psola.Shape
	logger          *slog.Logger
	stopPairOnFault bool
	initialPitch    float64
}

func defaultConfig() config {
	return config{
		processor:       core.DefaultProcessorConfig(),
		transportCycles: defaultTransportCycles,
		underrun:        UnderrunSilence,
		shape:           psola.ShapeTriangle,
		initialPitch:    1,
	}
}

// Option configures an Engine.
type Option func(*config)

// WithSampleRate sets the rate requested for both streams.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) {
		core.WithSampleRate(sampleRate)(&c.processor)
	}
}

// WithFramesPerBuffer sets the capture block size, which also bounds the
// analysis history. The render block size is left to the backend.
func WithFramesPerBuffer(frames int) Option {
	return func(c *config) {
		core.WithBlockSize(frames)(&c.processor)
	}
}

// WithTransportCycles sets the transport capacity in capture blocks.
func WithTransportCycles(cycles int) Option {
	return func(c *config) {
		c.transportCycles = cycles
	}
}

// WithUnderrunPolicy selects the render fill for missing samples.
func WithUnderrunPolicy(p UnderrunPolicy) Option {
	return func(c *config) {
		c.underrun = p
	}
}

// WithShape selects the grain taper.
func WithShape(s psola.Shape) Option {
	return func(c *config) {
		c.shape = s
	}
}

// WithLogger sets the logger used by the supervisor and lifecycle.
// The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithStopPairOnFault makes a fault that stops one stream stop the other
// one too. By default the other stream keeps running.
func WithStopPairOnFault(enabled bool) Option {
	return func(c *config) {
		c.stopPairOnFault = enabled
	}
}

// WithInitialPitch sets the ratio in effect when the engine starts.
// The default is 1.
func WithInitialPitch(ratio float64) Option {
	return func(c *config) {
		c.initialPitch = ratio
	}
}

func (c config) validate() error {
	if c.transportCycles < minTransportCycles {
		return fmt.Errorf("%w: transport cycles %d (must be >= %d)", ErrInvalidConfig, c.transportCycles, minTransportCycles)
	}
	if c.underrun != UnderrunSilence && c.underrun != UnderrunHold {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.underrun)
	}
	if c.shape != psola.ShapeTriangle && c.shape != psola.ShapeHann {
		return fmt.Errorf("%w: shape %v", ErrInvalidConfig, c.shape)
	}
	if err := checkRatio(c.initialPitch); err != nil {
		return fmt.Errorf("%w: initial pitch: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c config) captureConfig() device.StreamConfig {
	return device.StreamConfig{
		SampleRate:      c.processor.SampleRate,
		FramesPerBuffer: c.processor.BlockSize,
		Channels:        1,
	}
}

func (c config) renderConfig() device.StreamConfig {
	return device.StreamConfig{
		SampleRate: c.processor.SampleRate,
		Channels:   1,
	}
}

func checkRatio(ratio float64) error {
	if !(ratio >= MinPitchRatio && ratio <= MaxPitchRatio) {
		return fmt.Errorf("%w: %v (must be in [%g, %g])", ErrRatioOutOfRange, ratio, MinPitchRatio, MaxPitchRatio)
	}
	return nil
}
