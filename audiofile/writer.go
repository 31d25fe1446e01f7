package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVWriter encodes mono float32 samples as PCM WAV.
type WAVWriter struct {
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	peak   float64
	closer io.Closer
	closed bool
}

// Create creates a mono WAV file at path. bitDepth is 16 or 24.
func Create(path string, sampleRate, bitDepth int) (*WAVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	w, err := NewWAVWriter(f, sampleRate, bitDepth)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWAVWriter encodes to ws, which must stay open until Close.
func NewWAVWriter(ws io.WriteSeeker, sampleRate, bitDepth int) (*WAVWriter, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("%w: %d-bit output", ErrUnsupportedEncoding, bitDepth)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedEncoding, sampleRate)
	}
	return &WAVWriter{
		enc: wav.NewEncoder(ws, sampleRate, bitDepth, 1, 1),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		peak: float64(int64(1)<<(bitDepth-1)) - 1,
	}, nil
}

// Write encodes p. Samples are clipped to [-1, 1].
func (w *WAVWriter) Write(p []float32) error {
	if w.closed {
		return ErrClosed
	}
	if cap(w.buf.Data) < len(p) {
		w.buf.Data = make([]int, len(p))
	}
	w.buf.Data = w.buf.Data[:len(p)]
	for i, v := range p {
		x := math.Max(-1, math.Min(1, float64(v)))
		w.buf.Data[i] = int(math.Round(x * w.peak))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("audiofile: encode: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file opened by Create.
func (w *WAVWriter) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalize: %w", err)
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
