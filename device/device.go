// Package device defines the boundary between the engine and an audio
// backend: two independently clocked mono streams, one delivering captured
// blocks and one requesting blocks to render.
//
// Callbacks run on the backend's real-time context. They must not block,
// and their slices are only valid for the duration of the call.
package device

import (
	"errors"
	"fmt"
)

// Result tells the backend whether to keep calling a stream's callback.
type Result int

const (
	// Continue keeps the stream running.
	Continue Result = iota
	// Stop asks the backend to stop the stream. No further callbacks
	// are delivered for it.
	Stop
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// CaptureFunc receives one block of captured samples.
type CaptureFunc func(in []float32) Result

// RenderFunc fills one block of samples to play.
type RenderFunc func(out []float32) Result

// ErrorFunc receives asynchronous stream errors. It may be called from
// the real-time context and must not block.
type ErrorFunc func(err error)

// Stream is an opened device stream.
type Stream interface {
	// Start begins delivering callbacks.
	Start() error
	// Stop halts callbacks; it may be called after a callback returned Stop.
	Stop() error
	// Close releases the stream. It blocks until in-flight callbacks
	// have returned; none are delivered afterwards.
	Close() error
}

// Host opens streams on an audio backend.
type Host interface {
	OpenCapture(cfg StreamConfig, fn CaptureFunc, onErr ErrorFunc) (Stream, error)
	OpenRender(cfg StreamConfig, fn RenderFunc, onErr ErrorFunc) (Stream, error)
}

var (
	// ErrInputOverflow reports captured samples lost by the backend.
	ErrInputOverflow = errors.New("device: input overflow")
	// ErrOutputUnderflow reports a gap inserted by the backend because a
	// render callback was late.
	ErrOutputUnderflow = errors.New("device: output underflow")
	// ErrInvalidConfig is returned for unusable stream configurations.
	ErrInvalidConfig = errors.New("device: invalid stream config")
	// ErrClosed is returned when using a closed stream or host.
	ErrClosed = errors.New("device: closed")
	// ErrBusy is returned when a host cannot open another stream of a kind.
	ErrBusy = errors.New("device: busy")
)
