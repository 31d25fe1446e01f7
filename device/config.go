package device

import (
	"fmt"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// DefaultFramesPerBuffer is the low-latency capture block size at 48 kHz.
const DefaultFramesPerBuffer = core.DefaultBlockSize

// StreamConfig describes a mono float32 stream.
type StreamConfig struct {
	SampleRate float64
	// FramesPerBuffer is the preferred block size. Zero lets the backend
	// choose, which is the usual setting for render streams.
	FramesPerBuffer int
	// Channels must be 1; zero is treated as 1.
	Channels int
}

// Validate checks the config.
func (c StreamConfig) Validate() error {
	if !core.IsFinitePositive(c.SampleRate) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, c.SampleRate)
	}
	if c.FramesPerBuffer < 0 {
		return fmt.Errorf("%w: frames per buffer %d", ErrInvalidConfig, c.FramesPerBuffer)
	}
	if c.Channels != 0 && c.Channels != 1 {
		return fmt.Errorf("%w: %d channels (only mono is supported)", ErrInvalidConfig, c.Channels)
	}
	return nil
}
