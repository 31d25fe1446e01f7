package psola

import (
	"fmt"
	"iter"
	"math"
)

// initialGrainSlots is the preallocated number of overlapping grains. With
// half-width W and spacing T, floor(2W/T)+1 grains overlap, so 16 slots
// cover ratios up to 7.5 without allocating. Higher ratios grow the table
// once, on the first epoch that needs the extra slots.
const initialGrainSlots = 16

type grainSlot struct {
	epoch float64
	grain int64
	gain  float64
}

// Synthesis overlap-adds analysis grains at a target wavelength.
//
// Synthesis epochs are spaced by the target wavelength T in output time.
// When an epoch comes within W of the output position it is bound to the
// analysis grain k = floor((t - 2W) / W), the latest grain that is complete
// for every sample the epoch will ever produce. Output therefore lags input
// by 2W; at T == W the input is reproduced exactly with that delay.
type Synthesis struct {
	target float64

	out     int64
	last    float64
	next    float64
	started bool

	slots  []grainSlot
	active int
}

// NewSynthesis creates a synthesis stage with the given initial target
// wavelength in samples.
func NewSynthesis(target float64) (*Synthesis, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	return &Synthesis{target: target, slots: make([]grainSlot, initialGrainSlots)}, nil
}

// TargetWavelength returns the synthesis wavelength for a pitch ratio.
// Higher ratios give shorter wavelengths and higher pitch.
func TargetWavelength(nominal, ratio float64) float64 {
	return nominal / ratio
}

// Latency returns the input-to-output delay in samples for a nominal
// analysis wavelength.
func Latency(nominal float64) float64 {
	return 2 * nominal
}

// Wavelength returns the current target wavelength.
func (s *Synthesis) Wavelength() float64 { return s.target }

// Produced returns the number of samples produced so far.
func (s *Synthesis) Produced() int64 { return s.out }

// SetWavelength updates the target wavelength. It applies to the next
// epoch placement, which is computed on the next sample. Abrupt changes
// are not smoothed.
func (s *Synthesis) SetWavelength(target float64) error {
	if err := validateTarget(target); err != nil {
		return err
	}
	s.target = target
	if s.started {
		s.next = s.last + target
	}
	return nil
}

// Next produces one output sample from a.
func (s *Synthesis) Next(a *Analysis) float64 {
	w := a.win.wavelength
	m := float64(s.out)

	for s.next <= m+w {
		s.activate(a, w)
	}

	sum := 0.0
	j := 0
	for i := 0; i < s.active; i++ {
		slot := s.slots[i]
		u := m - slot.epoch
		if u >= w {
			continue
		}
		sum += slot.gain * a.Grain(slot.grain, u)
		s.slots[j] = slot
		j++
	}
	s.active = j
	s.out++

	return sum
}

// Fill writes exactly len(dst) output samples and returns that count.
func (s *Synthesis) Fill(a *Analysis, dst []float32) int {
	for i := range dst {
		dst[i] = float32(s.Next(a))
	}
	return len(dst)
}

// Samples returns a lazy sequence of output samples. The sequence is
// unbounded; the caller stops after drawing as many samples as it pushed.
// Ranging over it again continues where the previous range stopped.
func (s *Synthesis) Samples(a *Analysis) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for {
			if !yield(s.Next(a)) {
				return
			}
		}
	}
}

// Reset drops all active grains and rewinds the output position.
func (s *Synthesis) Reset() {
	s.out = 0
	s.last = 0
	s.next = 0
	s.started = false
	s.active = 0
}

func (s *Synthesis) activate(a *Analysis, w float64) {
	t := s.next
	s.last = t
	s.next = t + s.target
	s.started = true

	if s.active == len(s.slots) {
		s.slots = append(s.slots, make([]grainSlot, len(s.slots))...)
	}

	k := int64(math.Floor((t - 2*w) / w))
	if complete := a.CompleteGrains(); k >= complete {
		// Only reachable when more output is drawn than input was pushed.
		k = complete - 1
	}

	s.slots[s.active] = grainSlot{
		epoch: t,
		grain: k,
		gain:  math.Min(1, s.target/w),
	}
	s.active++
}

func validateTarget(target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 1 {
		return fmt.Errorf("%w: target %f (must be finite and >= 1)", ErrInvalidWavelength, target)
	}
	return nil
}
