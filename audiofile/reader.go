package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader decodes a file to mono float32 samples.
type Reader struct {
	dec        decoder
	format     Format
	sampleRate int
	channels   int
	closer     io.Closer

	tmp     []float32
	pending []float32
	eof     bool
}

// Open opens path and selects the decoder from its extension.
func Open(path string) (*Reader, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	r, err := NewReader(f, format)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audiofile: %s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader decodes rs as format.
func NewReader(rs io.ReadSeeker, format Format) (*Reader, error) {
	var (
		dec        decoder
		sampleRate int
		channels   int
		err        error
	)
	switch format {
	case FormatWAV:
		dec, sampleRate, channels, err = decodeWAV(rs)
	case FormatAIFF:
		dec, sampleRate, channels, err = decodeAIFF(rs)
	case FormatMP3:
		dec, sampleRate, channels, err = decodeMP3(rs)
	case FormatVorbis:
		dec, sampleRate, channels, err = decodeVorbis(rs)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
	if err != nil {
		return nil, err
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidFile, sampleRate, channels)
	}

	return newReader(dec, format, sampleRate, channels), nil
}

func newReader(dec decoder, format Format, sampleRate, channels int) *Reader {
	return &Reader{
		dec:        dec,
		format:     format,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Format returns the decoded format.
func (r *Reader) Format() Format { return r.format }

// SampleRate returns the file sample rate in Hz.
func (r *Reader) SampleRate() int { return r.sampleRate }

// Channels returns the channel count of the file. Read always yields mono.
func (r *Reader) Channels() int { return r.channels }

// Read fills p with mono samples. It returns io.EOF once the file is
// exhausted and no samples were read.
func (r *Reader) Read(p []float32) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.channels == 1 {
		if r.eof {
			return 0, io.EOF
		}
		n, err := r.dec.read(p)
		if errors.Is(err, io.EOF) {
			r.eof = true
			if n > 0 {
				err = nil
			}
		}
		return n, err
	}

	ch := r.channels
	need := len(p) * ch
	if cap(r.tmp) < need {
		r.tmp = make([]float32, need)
	}

	// Carry a partial frame from the previous call.
	have := copy(r.tmp[:need], r.pending)
	r.pending = r.pending[:0]

	var err error
	for have < need && !r.eof {
		var n int
		n, err = r.dec.read(r.tmp[have:need])
		have += n
		if errors.Is(err, io.EOF) {
			r.eof = true
			err = nil
			break
		}
		if err != nil || n == 0 {
			break
		}
	}

	frames := have / ch
	if rem := have - frames*ch; rem > 0 && !r.eof {
		r.pending = append(r.pending, r.tmp[frames*ch:have]...)
	}

	inv := 1 / float32(ch)
	for f := 0; f < frames; f++ {
		sum := float32(0)
		for _, v := range r.tmp[f*ch : f*ch+ch] {
			sum += v
		}
		p[f] = sum * inv
	}

	if frames == 0 && err == nil && r.eof {
		return 0, io.EOF
	}
	return frames, err
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// ReadAll decodes the whole file at path.
func ReadAll(path string) ([]float32, int, error) {
	r, err := Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	var out []float32
	block := make([]float32, 4096)
	for {
		n, err := r.Read(block)
		out = append(out, block[:n]...)
		if errors.Is(err, io.EOF) {
			return out, r.SampleRate(), nil
		}
		if err != nil {
			return nil, 0, err
		}
	}
}
