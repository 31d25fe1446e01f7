// Package buffer provides the byte transport between a capture context and
// a render context: a fixed-capacity single-producer single-consumer ring
// and a little-endian float32 sample codec.
//
// Neither side ever blocks or allocates. A write either fits completely or
// is rejected with [ErrOverrun]; a read returns what is available and
// reports [ErrUnderrun] when that is less than requested.
package buffer
