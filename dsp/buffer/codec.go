package buffer

import (
	"encoding/binary"
	"math"
)

// SampleSize is the encoded size of one float32 sample in bytes.
const SampleSize = 4

// EncodeFloat32 writes src to dst as little-endian IEEE-754 values and
// returns the number of bytes written. It stops when dst is full.
func EncodeFloat32(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/SampleSize)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*SampleSize:], math.Float32bits(src[i]))
	}
	return n * SampleSize
}

// DecodeFloat32 reads little-endian IEEE-754 values from src into dst and
// returns the number of samples decoded. A trailing partial sample in src
// is ignored.
func DecodeFloat32(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/SampleSize)
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*SampleSize:]))
	}
	return n
}

// Bytes returns the encoded size of n samples.
func Bytes(n int) int { return n * SampleSize }
