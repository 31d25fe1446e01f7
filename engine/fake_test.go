package engine

import (
	"bytes"
	"io"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-voice/device"
)

// fakeStream records lifecycle calls. Callbacks are driven by the test.
type fakeStream struct {
	mu       sync.Mutex
	startErr error
	started  int
	stopped  int
	closed   int

	capture device.CaptureFunc
	render  device.RenderFunc
	onErr   device.ErrorFunc
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started++
	return nil
}

func (s *fakeStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeStream) counts() (started, stopped, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.stopped, s.closed
}

// fakeHost hands out fakeStreams and can fail at each step.
type fakeHost struct {
	openCaptureErr  error
	openRenderErr   error
	startCaptureErr error
	startRenderErr  error

	captureCfg device.StreamConfig
	renderCfg  device.StreamConfig
	capture    *fakeStream
	render     *fakeStream
}

func (h *fakeHost) OpenCapture(cfg device.StreamConfig, fn device.CaptureFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if h.openCaptureErr != nil {
		return nil, h.openCaptureErr
	}
	h.captureCfg = cfg
	h.capture = &fakeStream{startErr: h.startCaptureErr, capture: fn, onErr: onErr}
	return h.capture, nil
}

func (h *fakeHost) OpenRender(cfg device.StreamConfig, fn device.RenderFunc, onErr device.ErrorFunc) (device.Stream, error) {
	if h.openRenderErr != nil {
		return nil, h.openRenderErr
	}
	h.renderCfg = cfg
	h.render = &fakeStream{startErr: h.startRenderErr, render: fn, onErr: onErr}
	return h.render, nil
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
