package core

const (
	// DefaultSampleRate is the default processing rate in Hz.
	DefaultSampleRate = 48000.0
	// DefaultBlockSize is the default block size in frames.
	DefaultBlockSize = 96
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns low-latency streaming defaults:
// 48 kHz with 96-frame (2 ms) blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if IsFinitePositive(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// BlockDuration returns the duration of one block in seconds.
func (c ProcessorConfig) BlockDuration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.BlockSize) / c.SampleRate
}
