// Package psola implements streaming time-domain pitch-synchronous
// overlap-add (TD-PSOLA) pitch shifting for a single channel.
//
// The pipeline has three parts:
//   - [Window]: the grain shape and the epoch cursor. Epochs are assumed
//     periodic at the nominal wavelength instead of being detected.
//   - [Analysis]: sample history from which grains centered on the epochs
//     are read.
//   - [Synthesis]: overlap-adds analysis grains at a target spacing. Grain
//     content is read at the input rate while grains are emitted at the
//     target wavelength, which changes the fundamental without changing
//     duration.
//
// All state is preallocated; PushSample, Next and Fill do not allocate and
// are suitable for real-time audio callbacks. None of the types are safe
// for concurrent use.
package psola
