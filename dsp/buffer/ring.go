package buffer

import (
	"math/bits"
	"sync/atomic"
)

const maxCapacity = 1 << 30

// Ring is a lock-free single-producer single-consumer byte ring.
//
// Exactly one goroutine may call Write and exactly one may call Read.
// Len and Free are safe from either side; the result is a lower bound of
// what the calling side can use. Reset requires both sides to be idle.
//
// The read and write positions are free-running counters; the producer
// publishes its position after copying the payload, the consumer after
// copying out, so each side only ever observes completed copies.
type Ring struct {
	data []byte
	mask uint64

	_     [64]byte
	write atomic.Uint64
	_     [56]byte
	read  atomic.Uint64
	_     [56]byte
}

// NewRing creates a ring holding at least capacity bytes. The capacity is
// rounded up to a power of two.
func NewRing(capacity int) (*Ring, error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}
	size := 1 << bits.Len(uint(capacity-1))
	return &Ring{
		data: make([]byte, size),
		mask: uint64(size - 1),
	}, nil
}

// Cap returns the ring capacity in bytes.
func (r *Ring) Cap() int { return len(r.data) }

// Len returns the number of bytes available to read.
func (r *Ring) Len() int {
	return int(r.write.Load() - r.read.Load())
}

// Free returns the number of bytes that can be written.
func (r *Ring) Free() int {
	return len(r.data) - r.Len()
}

// Write copies all of p into the ring or nothing. It returns ErrOverrun
// with a zero count when p does not fit.
func (r *Ring) Write(p []byte) (int, error) {
	w := r.write.Load()
	free := uint64(len(r.data)) - (w - r.read.Load())
	if uint64(len(p)) > free {
		return 0, ErrOverrun
	}
	if len(p) == 0 {
		return 0, nil
	}

	start := w & r.mask
	n := copy(r.data[start:], p)
	copy(r.data, p[n:])

	r.write.Store(w + uint64(len(p)))
	return len(p), nil
}

// Read copies up to len(p) bytes out of the ring. When fewer bytes are
// available it copies those and returns ErrUnderrun with the short count.
func (r *Ring) Read(p []byte) (int, error) {
	rd := r.read.Load()
	avail := r.write.Load() - rd

	want := uint64(len(p))
	short := want > avail
	if short {
		want = avail
	}

	if want > 0 {
		start := rd & r.mask
		n := copy(p[:want], r.data[start:])
		copy(p[n:want], r.data)
		r.read.Store(rd + want)
	}

	if short {
		return int(want), ErrUnderrun
	}
	return int(want), nil
}

// Reset discards all buffered bytes. Neither side may be active.
func (r *Ring) Reset() {
	r.read.Store(0)
	r.write.Store(0)
}
