// Package pitch provides block-based pitch-shifting processors behind a
// shared interface.
//
// [Shifter] wraps the streaming TD-PSOLA stages of package psola for
// offline and non-real-time use on float64 blocks. It is tuned for
// monophonic voice: the analysis period is derived from a nominal
// fundamental frequency, which should be close to the voice being shifted.
package pitch
