package offline

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cwbudde/algo-voice/device"
)

// Option configures a Host.
type Option func(*Host)

// WithJitter makes render blocks alternate between n frames smaller and n
// frames larger than the capture block, starting with the smaller one.
func WithJitter(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.jitter = n
		}
	}
}

// WithRenderFrames sets the render block size used when the render stream
// leaves FramesPerBuffer at zero. The default is the capture block size.
func WithRenderFrames(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.renderFrames = n
		}
	}
}

// Host is a single-use offline backend with at most one capture and one
// render stream.
type Host struct {
	src  Source
	sink Sink

	jitter       int
	renderFrames int

	mu      sync.Mutex
	capture *stream
	render  *stream
	started bool
	done    chan struct{}
	quit    chan struct{}
	err     error

	captured int64
	rendered int64
}

// New creates a host reading from src and writing to sink. sink may be nil
// to discard rendered samples.
func New(src Source, sink Sink, opts ...Option) *Host {
	h := &Host{
		src:  src,
		sink: sink,
		done: make(chan struct{}),
		quit: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Done is closed when the clock goroutine has finished: the source is
// exhausted and the render side has produced as many samples as were
// captured, or every stream was closed.
func (h *Host) Done() <-chan struct{} { return h.done }

// Err returns the source or sink error that ended the clock, if any.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Frames returns the number of captured and rendered frames so far.
func (h *Host) Frames() (captured, rendered int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.captured, h.rendered
}

// OpenCapture registers the capture stream.
func (h *Host) OpenCapture(cfg device.StreamConfig, fn device.CaptureFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.FramesPerBuffer == 0 {
		return nil, fmt.Errorf("%w: capture needs a block size", device.ErrInvalidConfig)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.capture != nil {
		return nil, fmt.Errorf("%w: capture already open", device.ErrBusy)
	}
	h.capture = &stream{host: h, frames: cfg.FramesPerBuffer, capture: fn, onErr: onErr}
	return h.capture, nil
}

// OpenRender registers the render stream.
func (h *Host) OpenRender(cfg device.StreamConfig, fn device.RenderFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.render != nil {
		return nil, fmt.Errorf("%w: render already open", device.ErrBusy)
	}
	h.render = &stream{host: h, frames: cfg.FramesPerBuffer, render: fn, onErr: onErr}
	return h.render, nil
}

// maybeStart launches the clock once every opened stream is running.
// Called with h.mu held.
func (h *Host) maybeStart() {
	if h.started || h.capture == nil {
		return
	}
	if !h.capture.running || (h.render != nil && !h.render.running) {
		return
	}
	h.started = true
	go h.run()
}

func (h *Host) run() {
	defer close(h.done)

	h.mu.Lock()
	capFrames := h.capture.frames
	renFrames := capFrames
	if h.renderFrames > 0 {
		renFrames = h.renderFrames
	}
	if h.render != nil && h.render.frames > 0 {
		renFrames = h.render.frames
	}
	h.mu.Unlock()

	in := make([]float32, capFrames)
	out := make([]float32, renFrames+h.jitter)
	cycle := 0
	eof := false

	for {
		select {
		case <-h.quit:
			return
		default:
		}

		if !eof {
			n, err := readFull(h.src, in)
			if n > 0 {
				clear(in[n:])
				h.deliverCapture(in[:n])
			}
			switch {
			case errors.Is(err, io.EOF):
				eof = true
			case err != nil:
				h.fail(fmt.Errorf("offline: source: %w", err), true)
				return
			}
		}

		size := renFrames
		if h.jitter > 0 {
			if cycle%2 == 0 {
				size = max(1, renFrames-h.jitter)
			} else {
				size = renFrames + h.jitter
			}
		}
		cycle++

		h.mu.Lock()
		remaining := h.captured - h.rendered
		h.mu.Unlock()
		if eof {
			if remaining <= 0 {
				return
			}
			size = int(min(int64(size), remaining))
		}

		block := out[:size]
		if err := h.deliverRender(block); err != nil {
			h.fail(fmt.Errorf("offline: sink: %w", err), false)
			return
		}
	}
}

func (h *Host) deliverCapture(block []float32) {
	h.mu.Lock()
	s := h.capture
	h.captured += int64(len(block))
	h.mu.Unlock()

	s.invoke(block)
}

func (h *Host) deliverRender(block []float32) error {
	h.mu.Lock()
	s := h.render
	h.rendered += int64(len(block))
	h.mu.Unlock()

	clear(block)
	if s != nil {
		s.invoke(block)
	}
	if h.sink == nil {
		return nil
	}
	return h.sink.Write(block)
}

func (h *Host) fail(err error, capture bool) {
	h.mu.Lock()
	h.err = err
	s := h.render
	if capture {
		s = h.capture
	}
	h.mu.Unlock()

	if s != nil && s.onErr != nil {
		s.onErr(err)
	}
}

// closed is called by a stream's Close. The clock stops once every opened
// stream is closed.
func (h *Host) closed() {
	h.mu.Lock()
	all := (h.capture == nil || h.capture.closed) && (h.render == nil || h.render.closed)
	started := h.started
	if all && started {
		select {
		case <-h.quit:
		default:
			close(h.quit)
		}
	}
	h.mu.Unlock()

	if all && started {
		<-h.done
	}
}

// stream is one offline stream. Callbacks are invoked under cb, so Close
// waits for an in-flight callback by acquiring it.
type stream struct {
	host    *Host
	frames  int
	capture device.CaptureFunc
	render  device.RenderFunc
	onErr   device.ErrorFunc

	cb      sync.Mutex
	running bool
	latched bool
	closed  bool
}

func (s *stream) invoke(block []float32) {
	s.cb.Lock()
	defer s.cb.Unlock()

	s.host.mu.Lock()
	active := s.running && !s.latched && !s.closed
	s.host.mu.Unlock()
	if !active {
		return
	}

	var res device.Result
	if s.capture != nil {
		res = s.capture(block)
	} else {
		res = s.render(block)
	}
	if res == device.Stop {
		s.host.mu.Lock()
		s.latched = true
		s.host.mu.Unlock()
	}
}

func (s *stream) Start() error {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	if s.closed {
		return device.ErrClosed
	}
	s.running = true
	s.latched = false
	s.host.maybeStart()
	return nil
}

func (s *stream) Stop() error {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	if s.closed {
		return nil
	}
	s.running = false
	return nil
}

func (s *stream) Close() error {
	s.cb.Lock()
	s.host.mu.Lock()
	if s.closed {
		s.host.mu.Unlock()
		s.cb.Unlock()
		return device.ErrClosed
	}
	s.closed = true
	s.running = false
	s.host.mu.Unlock()
	s.cb.Unlock()

	s.host.closed()
	return nil
}

// readFull fills p unless the source ends or fails first.
func readFull(src Source, p []float32) (int, error) {
	n := 0
	for n < len(p) {
		m, err := src.Read(p[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, io.ErrNoProgress
		}
	}
	return n, nil
}
