package engine

import (
	"errors"

	"github.com/cwbudde/algo-voice/device"
	"github.com/cwbudde/algo-voice/dsp/buffer"
)

// onCapture runs on the capture context. Blocks larger than the configured
// size are processed in chunks so the preallocated scratch is never
// exceeded.
func (e *Engine) onCapture(in []float32) device.Result {
	if e.captureFailed.Load() {
		return device.Stop
	}

	block := len(e.capOut)
	for start := 0; start < len(in); start += block {
		chunk := in[start:min(start+block, len(in))]
		if res := e.processCapture(chunk); res != device.Continue {
			return res
		}
	}

	e.captureCycles.Add(1)
	return device.Continue
}

func (e *Engine) processCapture(chunk []float32) device.Result {
	e.analysis.Push(chunk)

	if ratio := e.pitch.Get(); ratio != e.lastRatio {
		// Ratios are validated on Set; the target is clamped to >= 1.
		_ = e.synthesis.SetWavelength(targetWavelength(e.wavelength, ratio))
		e.lastRatio = ratio
	}

	out := e.capOut[:len(chunk)]
	n := e.synthesis.Fill(e.analysis, out)
	nb := buffer.EncodeFloat32(e.capBytes, out[:n])
	if nb != buffer.Bytes(len(chunk)) {
		e.raise(sideCapture, ErrThroughputMismatch, true)
		return device.Stop
	}

	if _, err := e.ring.Write(e.capBytes[:nb]); err != nil {
		e.overruns.Add(1)
		e.raise(sideCapture, ErrTransportOverrun, true)
		return device.Stop
	}
	return device.Continue
}

// onRender runs on the render context.
func (e *Engine) onRender(out []float32) device.Result {
	if e.renderFailed.Load() {
		clear(out)
		return device.Stop
	}

	// Scratch holds the whole transport; larger blocks are drained in chunks.
	chunkSize := len(e.renBytes) / buffer.SampleSize
	short := false
	for start := 0; start < len(out); start += chunkSize {
		chunk := out[start:min(start+chunkSize, len(out))]

		nb, err := e.ring.Read(e.renBytes[:buffer.Bytes(len(chunk))])
		got := buffer.DecodeFloat32(chunk, e.renBytes[:nb])
		if err == nil {
			continue
		}

		short = true
		e.missingSamples.Add(uint64(len(chunk) - got))
		if e.cfg.underrun == UnderrunSilence {
			clear(chunk[got:])
		}
	}
	if short {
		e.underruns.Add(1)
	}

	e.renderCycles.Add(1)
	return device.Continue
}

func (e *Engine) onCaptureError(err error) {
	e.raise(sideCapture, err, isFatal(err))
}

func (e *Engine) onRenderError(err error) {
	e.raise(sideRender, err, isFatal(err))
}

// isFatal reports whether a backend error ends the stream. Overflow and
// underflow are glitches; anything else is treated as a dead stream.
func isFatal(err error) bool {
	return !errors.Is(err, device.ErrInputOverflow) && !errors.Is(err, device.ErrOutputUnderflow)
}
