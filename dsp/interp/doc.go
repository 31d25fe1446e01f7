// Package interp provides fractional-position interpolation primitives used
// when reading sample history between integer indices.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default)
//
// The [Mode] enum selects the method at construction time of a reader.
package interp
