// Package engine runs the live pitch-shifting pipeline between a capture
// stream and a render stream.
//
// Each capture callback pushes its block into a TD-PSOLA analysis stage,
// reads the current pitch ratio, draws exactly as many synthesized samples
// as it received and writes them, encoded as little-endian float32, into a
// lock-free ring in a single all-or-nothing write. The render callback
// drains its own block size from the ring on its own schedule and fills
// any shortfall according to the [UnderrunPolicy].
//
// Callbacks never lock, allocate or log. Faults are handed to a supervisor
// goroutine over a buffered channel and logged there with log/slog.
//
// An [Engine] moves from running to stopped exactly once. [Registry]
// exposes engines to control callers through opaque handles.
package engine
