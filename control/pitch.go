// Package control holds the pitch ratio shared between control callers and
// the capture context.
package control

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// ErrInvalidRatio is returned for non-finite or non-positive ratios.
var ErrInvalidRatio = errors.New("control: invalid pitch ratio")

// Pitch is a lock-free pitch ratio cell. Set and Get are wait-free and safe
// for concurrent use; Get never observes a torn or rejected value.
type Pitch struct {
	bits atomic.Uint64
}

// NewPitch creates a cell holding initial.
func NewPitch(initial float64) (*Pitch, error) {
	p := &Pitch{}
	if err := p.Set(initial); err != nil {
		return nil, err
	}
	return p, nil
}

// Set stores ratio. Invalid values are rejected and the previous ratio is
// kept.
func (p *Pitch) Set(ratio float64) error {
	if !core.IsFinitePositive(ratio) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	p.bits.Store(Encode(ratio))
	return nil
}

// SetSemitones stores the ratio 2^(st/12).
func (p *Pitch) SetSemitones(st float64) error {
	return p.Set(core.SemitonesToRatio(st))
}

// Get returns the current ratio.
func (p *Pitch) Get() float64 {
	return Decode(p.bits.Load())
}

// Semitones returns the current ratio in semitones.
func (p *Pitch) Semitones() float64 {
	return core.RatioToSemitones(p.Get())
}

// Encode returns the bit pattern stored for ratio. Decode(Encode(x)) has
// exactly the bits of x, including the sign of zero and NaN payloads.
func Encode(ratio float64) uint64 { return math.Float64bits(ratio) }

// Decode is the inverse of Encode.
func Decode(bits uint64) float64 { return math.Float64frombits(bits) }
