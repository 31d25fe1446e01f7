package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// decoder reads interleaved float32 samples in [-1, 1]. It returns the
// number of values written, and io.EOF once exhausted.
type decoder interface {
	read(dst []float32) (int, error)
}

// pcmReader is the subset of the go-audio WAV and AIFF decoders used here.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type pcmDecoder struct {
	dec   pcmReader
	scale float32
	buf   *goaudio.IntBuffer
}

func newPCMDecoder(dec pcmReader, bitDepth int) (*pcmDecoder, error) {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, bitDepth)
	}
	return &pcmDecoder{
		dec:   dec,
		scale: 1 / float32(int64(1)<<(bitDepth-1)),
	}, nil
}

func (d *pcmDecoder) read(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if d.buf == nil || cap(d.buf.Data) < len(dst) {
		d.buf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: d.dec.Format(),
		}
	}
	d.buf.Data = d.buf.Data[:len(dst)]

	n, err := d.dec.PCMBuffer(d.buf)
	for i := 0; i < n; i++ {
		dst[i] = float32(d.buf.Data[i]) * d.scale
	}
	if n == 0 && err == nil {
		err = io.EOF
	}
	return n, err
}

func decodeWAV(rs io.ReadSeeker) (decoder, int, int, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}
	if dec.WavAudioFormat != 1 {
		return nil, 0, 0, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}
	d, err := newPCMDecoder(dec, int(dec.BitDepth))
	if err != nil {
		return nil, 0, 0, err
	}
	return d, int(dec.SampleRate), int(dec.NumChans), nil
}

func decodeAIFF(rs io.ReadSeeker) (decoder, int, int, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}
	dec.ReadInfo()
	format := dec.Format()
	if format == nil {
		return nil, 0, 0, fmt.Errorf("%w: missing AIFF format", ErrInvalidFile)
	}
	d, err := newPCMDecoder(dec, int(dec.BitDepth))
	if err != nil {
		return nil, 0, 0, err
	}
	return d, format.SampleRate, format.NumChannels, nil
}

// mp3Decoder converts the 16-bit little-endian stereo stream of go-mp3.
type mp3Decoder struct {
	dec *gomp3.Decoder
	buf []byte
}

func decodeMP3(r io.Reader) (decoder, int, int, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return &mp3Decoder{dec: dec}, dec.SampleRate(), 2, nil
}

func (d *mp3Decoder) read(dst []float32) (int, error) {
	need := 2 * len(dst)
	if cap(d.buf) < need {
		d.buf = make([]byte, need)
	}
	d.buf = d.buf[:need]

	n, err := io.ReadFull(d.dec, d.buf)
	samples := n / 2
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(d.buf[2*i:]))
		dst[i] = float32(v) / 32768
	}
	if err == io.ErrUnexpectedEOF || (err == io.EOF && samples > 0) {
		err = nil
	}
	return samples, err
}

type vorbisDecoder struct {
	dec *oggvorbis.Reader
}

func decodeVorbis(r io.Reader) (decoder, int, int, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return &vorbisDecoder{dec: dec}, dec.SampleRate(), dec.Channels(), nil
}

func (d *vorbisDecoder) read(dst []float32) (int, error) {
	n, err := d.dec.Read(dst)
	if n > 0 && err == io.EOF {
		err = nil
	}
	return n, err
}
