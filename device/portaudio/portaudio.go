// Package portaudio implements [device.Host] on the default PortAudio
// input and output devices.
package portaudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	pa "github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-voice/device"
)

// Host opens mono float32 streams on the default devices. It initializes
// PortAudio on creation and terminates it on Close.
type Host struct {
	mu     sync.Mutex
	closed bool
}

// New initializes PortAudio.
func New() (*Host, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	return &Host{}, nil
}

// Close terminates PortAudio. All streams must be closed first.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return device.ErrClosed
	}
	h.closed = true
	return pa.Terminate()
}

// Devices returns a short description of the default input and output.
func (h *Host) Devices() (in, out string, err error) {
	di, err := pa.DefaultInputDevice()
	if err != nil {
		return "", "", fmt.Errorf("portaudio: default input: %w", err)
	}
	do, err := pa.DefaultOutputDevice()
	if err != nil {
		return "", "", fmt.Errorf("portaudio: default output: %w", err)
	}
	return di.Name, do.Name, nil
}

// OpenCapture opens the default input device.
func (h *Host) OpenCapture(cfg device.StreamConfig, fn device.CaptureFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if err := h.check(cfg); err != nil {
		return nil, err
	}
	s := newStream(onErr)
	cb := func(in []float32, _ pa.StreamCallbackTimeInfo, flags pa.StreamCallbackFlags) {
		if s.latched.Load() {
			return
		}
		if flags&pa.InputOverflow != 0 {
			s.report(device.ErrInputOverflow)
		}
		if fn(in) == device.Stop {
			s.latch()
		}
	}

	ps, err := pa.OpenDefaultStream(1, 0, cfg.SampleRate, framesPerBuffer(cfg), cb)
	if err != nil {
		return nil, fmt.Errorf("portaudio: open capture: %w", err)
	}
	s.attach(ps)
	return s, nil
}

// OpenRender opens the default output device.
func (h *Host) OpenRender(cfg device.StreamConfig, fn device.RenderFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if err := h.check(cfg); err != nil {
		return nil, err
	}
	s := newStream(onErr)
	cb := func(out []float32, _ pa.StreamCallbackTimeInfo, flags pa.StreamCallbackFlags) {
		if s.latched.Load() {
			clear(out)
			return
		}
		if flags&pa.OutputUnderflow != 0 {
			s.report(device.ErrOutputUnderflow)
		}
		if fn(out) == device.Stop {
			s.latch()
		}
	}

	ps, err := pa.OpenDefaultStream(0, 1, cfg.SampleRate, framesPerBuffer(cfg), cb)
	if err != nil {
		return nil, fmt.Errorf("portaudio: open render: %w", err)
	}
	s.attach(ps)
	return s, nil
}

func (h *Host) check(cfg device.StreamConfig) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return device.ErrClosed
	}
	return cfg.Validate()
}

func framesPerBuffer(cfg device.StreamConfig) int {
	if cfg.FramesPerBuffer == 0 {
		return pa.FramesPerBufferUnspecified
	}
	return cfg.FramesPerBuffer
}

// stream wraps a PortAudio stream. A Stop result from the callback latches
// the stream silent; the real Pa stop is issued by a watcher goroutine
// because it must not be called from the callback.
type stream struct {
	ps    *pa.Stream
	onErr device.ErrorFunc

	latched atomic.Bool
	stopReq chan struct{}
	done    chan struct{}
	watcher sync.WaitGroup

	mu      sync.Mutex
	running bool
	closed  bool
}

func newStream(onErr device.ErrorFunc) *stream {
	return &stream{
		onErr:   onErr,
		stopReq: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *stream) attach(ps *pa.Stream) {
	s.ps = ps
	s.watcher.Add(1)
	go s.watch()
}

func (s *stream) report(err error) {
	if s.onErr != nil {
		s.onErr(err)
	}
}

func (s *stream) latch() {
	s.latched.Store(true)
	select {
	case s.stopReq <- struct{}{}:
	default:
	}
}

func (s *stream) watch() {
	defer s.watcher.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.stopReq:
			if err := s.Stop(); err != nil {
				s.report(err)
			}
		}
	}
}

func (s *stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return device.ErrClosed
	}
	if s.running {
		return nil
	}
	s.latched.Store(false)
	if err := s.ps.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	s.running = true
	return nil
}

func (s *stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.running {
		return nil
	}
	s.running = false
	if err := s.ps.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop: %w", err)
	}
	return nil
}

func (s *stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return device.ErrClosed
	}
	s.closed = true
	s.latched.Store(true)
	s.mu.Unlock()

	close(s.done)
	s.watcher.Wait()

	// Pa_CloseStream aborts an active stream and waits for its callback.
	if err := s.ps.Close(); err != nil {
		return fmt.Errorf("portaudio: close: %w", err)
	}
	return nil
}
