package engine

import (
	"context"
	"log/slog"
)

const faultQueue = 32

type side uint8

const (
	sideCapture side = iota
	sideRender
)

func (s side) String() string {
	if s == sideCapture {
		return "capture"
	}
	return "render"
}

type fault struct {
	side  side
	err   error
	fatal bool
}

// raise hands a fault to the supervisor without blocking. A fatal fault
// makes the faulting side return Stop from its next callback.
func (e *Engine) raise(s side, err error, fatal bool) {
	if fatal {
		if s == sideCapture {
			e.captureFailed.Store(true)
		} else {
			e.renderFailed.Store(true)
		}
	}
	select {
	case e.faults <- fault{side: s, err: err, fatal: fatal}:
	default:
		e.dropped.Add(1)
	}
}

func (e *Engine) supervise() {
	defer e.supervisor.Done()
	for {
		select {
		case f := <-e.faults:
			e.handle(f)
		case <-e.quit:
			for {
				select {
				case f := <-e.faults:
					e.handle(f)
				default:
					if n := e.dropped.Load(); n > 0 {
						e.log.Warn("faults dropped", "count", n)
					}
					return
				}
			}
		}
	}
}

// handle logs f and, when configured, stops the paired stream. The fault
// is counted once handling is complete.
func (e *Engine) handle(f fault) {
	defer e.faultCount.Add(1)

	level := slog.LevelWarn
	if f.fatal {
		level = slog.LevelError
	}
	e.log.Log(context.Background(), level, "stream fault", "stream", f.side.String(), "fatal", f.fatal, "err", f.err)

	if !f.fatal || !e.cfg.stopPairOnFault {
		return
	}

	// The faulting stream stops itself by returning Stop.
	other, name := e.render, sideRender
	if f.side == sideRender {
		other, name = e.capture, sideCapture
	}
	if name == sideCapture {
		e.captureFailed.Store(true)
	} else {
		e.renderFailed.Store(true)
	}
	if err := other.Stop(); err != nil {
		e.log.Warn("stop paired stream", "stream", name.String(), "err", err)
		return
	}
	e.log.Info("stopped paired stream", "stream", name.String())
}
