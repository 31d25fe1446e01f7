// Package offline implements [device.Host] without audio hardware.
//
// A clock goroutine reads capture blocks from a [Source], delivers them to
// the capture callback, then requests a render block of its own size from
// the render callback and hands it to a [Sink]. The two streams therefore
// run on one clock but with independent block sizes, which makes the host
// suitable for rendering files through the engine and for testing it.
package offline
