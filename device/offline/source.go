package offline

import "io"

// Source supplies capture samples. Read returns io.EOF once exhausted.
type Source interface {
	Read(p []float32) (int, error)
}

// Sink receives rendered samples.
type Sink interface {
	Write(p []float32) error
}

// SliceSource reads from an in-memory signal.
type SliceSource struct {
	samples []float32
	pos     int
}

// NewSliceSource creates a source over samples.
func NewSliceSource(samples []float32) *SliceSource {
	return &SliceSource{samples: samples}
}

// Read copies the next samples into p.
func (s *SliceSource) Read(p []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(p, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// SliceSink collects rendered samples in memory.
type SliceSink struct {
	samples []float32
}

// Write appends p.
func (s *SliceSink) Write(p []float32) error {
	s.samples = append(s.samples, p...)
	return nil
}

// Samples returns everything written so far.
func (s *SliceSink) Samples() []float32 { return s.samples }
