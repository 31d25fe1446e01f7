package engine

import "errors"

var (
	// ErrInvalidConfig is returned by Start for unusable parameters.
	ErrInvalidConfig = errors.New("engine: invalid config")
	// ErrOpenCapture is returned when the capture stream cannot be opened.
	ErrOpenCapture = errors.New("engine: open capture stream")
	// ErrOpenRender is returned when the render stream cannot be opened.
	ErrOpenRender = errors.New("engine: open render stream")
	// ErrStartCapture is returned when the capture stream cannot be started.
	ErrStartCapture = errors.New("engine: start capture stream")
	// ErrStartRender is returned when the render stream cannot be started.
	ErrStartRender = errors.New("engine: start render stream")
	// ErrNotRunning is returned for operations that need a running engine.
	ErrNotRunning = errors.New("engine: not running")
	// ErrStopped is returned by Stop on an engine that was already stopped.
	ErrStopped = errors.New("engine: already stopped")
	// ErrRatioOutOfRange is returned for pitch ratios outside
	// [MinPitchRatio, MaxPitchRatio].
	ErrRatioOutOfRange = errors.New("engine: pitch ratio out of range")
	// ErrUnknownHandle is returned by Registry for unknown or consumed handles.
	ErrUnknownHandle = errors.New("engine: unknown handle")

	// ErrTransportOverrun is reported when the render side fell so far
	// behind that a capture block did not fit into the transport.
	ErrTransportOverrun = errors.New("engine: transport overrun")
	// ErrThroughputMismatch is reported when a capture cycle produced a
	// different byte count than it consumed.
	ErrThroughputMismatch = errors.New("engine: throughput mismatch")
)
