package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/psola"
)

const (
	defaultShifterRatio       = 1.0
	defaultShifterFundamental = 150.0

	minShifterRatio = 0.25
	maxShifterRatio = 4.0

	minShifterFundamental = 40.0
	maxShifterFundamental = 1000.0
)

// Shifter is a mono TD-PSOLA pitch shifter for float64 blocks.
//
// Output is delayed by two analysis periods ([Shifter.Latency]) and has the
// same length as the input. Ratio changes apply from the next epoch.
type Shifter struct {
	sampleRate  float64
	pitchRatio  float64
	fundamental float64
	gain        float64
	shape       psola.Shape

	wavelength float64
	analysis   *psola.Analysis
	synthesis  *psola.Synthesis
}

// ShifterOption configures a Shifter.
type ShifterOption func(*Shifter)

// WithFundamental sets the nominal voice fundamental in Hz.
func WithFundamental(hz float64) ShifterOption {
	return func(p *Shifter) {
		p.fundamental = hz
	}
}

// WithOutputGain sets a linear output gain.
func WithOutputGain(gain float64) ShifterOption {
	return func(p *Shifter) {
		p.gain = gain
	}
}

// WithGrainShape selects the grain taper.
func WithGrainShape(s psola.Shape) ShifterOption {
	return func(p *Shifter) {
		p.shape = s
	}
}

// NewShifter constructs a shifter for sampleRate.
func NewShifter(sampleRate float64, opts ...ShifterOption) (*Shifter, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	p := &Shifter{
		sampleRate:  sampleRate,
		pitchRatio:  defaultShifterRatio,
		fundamental: defaultShifterFundamental,
		gain:        1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if err := validateFundamental(p.fundamental); err != nil {
		return nil, err
	}
	if !core.IsFinite(p.gain) {
		return nil, fmt.Errorf("pitch shifter gain must be finite: %f", p.gain)
	}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// SampleRate returns the current sample rate in Hz.
func (p *Shifter) SampleRate() float64 { return p.sampleRate }

// PitchRatio returns the pitch ratio.
func (p *Shifter) PitchRatio() float64 { return p.pitchRatio }

// PitchSemitones returns the current pitch shift in semitones.
func (p *Shifter) PitchSemitones() float64 { return core.RatioToSemitones(p.pitchRatio) }

// Fundamental returns the nominal fundamental in Hz.
func (p *Shifter) Fundamental() float64 { return p.fundamental }

// Wavelength returns the analysis period in samples.
func (p *Shifter) Wavelength() float64 { return p.wavelength }

// Latency returns the processing delay in samples.
func (p *Shifter) Latency() int { return int(math.Ceil(psola.Latency(p.wavelength))) }

// SetSampleRate updates the sample rate and resets the processor.
func (p *Shifter) SetSampleRate(sampleRate float64) error {
	if !core.IsFinitePositive(sampleRate) {
		return fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	old := p.sampleRate
	p.sampleRate = sampleRate
	if err := p.rebuild(); err != nil {
		p.sampleRate = old
		_ = p.rebuild()
		return err
	}
	return nil
}

// SetFundamental updates the nominal fundamental and resets the processor.
func (p *Shifter) SetFundamental(hz float64) error {
	if err := validateFundamental(hz); err != nil {
		return err
	}
	old := p.fundamental
	p.fundamental = hz
	if err := p.rebuild(); err != nil {
		p.fundamental = old
		_ = p.rebuild()
		return err
	}
	return nil
}

// SetPitchRatio updates the pitch shift ratio.
func (p *Shifter) SetPitchRatio(ratio float64) error {
	if !core.IsFinitePositive(ratio) || ratio < minShifterRatio || ratio > maxShifterRatio {
		return fmt.Errorf("pitch shifter ratio must be in [%f, %f]: %f",
			minShifterRatio, maxShifterRatio, ratio)
	}
	if err := p.synthesis.SetWavelength(math.Max(1, psola.TargetWavelength(p.wavelength, ratio))); err != nil {
		return err
	}
	p.pitchRatio = ratio
	return nil
}

// SetPitchSemitones updates pitch shift in semitones.
func (p *Shifter) SetPitchSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}
	if err := p.SetPitchRatio(core.SemitonesToRatio(semitones)); err != nil {
		return fmt.Errorf("pitch shifter semitones out of range: %w", err)
	}
	return nil
}

// SetOutputGain sets a linear output gain.
func (p *Shifter) SetOutputGain(gain float64) error {
	if !core.IsFinite(gain) {
		return fmt.Errorf("pitch shifter gain must be finite: %f", gain)
	}
	p.gain = gain
	return nil
}

// Reset clears the analysis history and active grains.
func (p *Shifter) Reset() {
	p.analysis.Reset()
	p.synthesis.Reset()
}

// Process pitch-shifts input and returns a new output block with equal length.
func (p *Shifter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	out := make([]float64, len(input))
	copy(out, input)
	p.ProcessInPlace(out)
	return out
}

// ProcessInPlace pitch-shifts buf in place.
func (p *Shifter) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		p.analysis.PushSample(x)
		buf[i] = p.synthesis.Next(p.analysis)
	}
	if p.gain != 1 {
		vecmath.ScaleBlockInPlace(buf, p.gain)
	}
}

func (p *Shifter) rebuild() error {
	wavelength := p.sampleRate / p.fundamental
	win, err := psola.NewWindow(wavelength, psola.WithShape(p.shape))
	if err != nil {
		return fmt.Errorf("pitch shifter: %w", err)
	}
	// One sample is drawn per sample pushed.
	analysis, err := psola.NewAnalysis(win, 1)
	if err != nil {
		return fmt.Errorf("pitch shifter: %w", err)
	}
	synthesis, err := psola.NewSynthesis(math.Max(1, psola.TargetWavelength(wavelength, p.pitchRatio)))
	if err != nil {
		return fmt.Errorf("pitch shifter: %w", err)
	}
	p.wavelength = wavelength
	p.analysis = analysis
	p.synthesis = synthesis
	return nil
}

func validateFundamental(hz float64) error {
	if !core.IsFinite(hz) || hz < minShifterFundamental || hz > maxShifterFundamental {
		return fmt.Errorf("pitch shifter fundamental must be in [%f, %f] Hz: %f",
			minShifterFundamental, maxShifterFundamental, hz)
	}
	return nil
}
