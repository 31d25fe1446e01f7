package psola

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidWavelength is returned for non-finite or out-of-range wavelengths.
	ErrInvalidWavelength = errors.New("psola: invalid wavelength")
	// ErrInvalidBlockSize is returned for non-positive block sizes.
	ErrInvalidBlockSize = errors.New("psola: invalid block size")
)

func validateWavelength(wavelength float64) error {
	if math.IsNaN(wavelength) || wavelength < MinWavelength || wavelength > MaxWavelength {
		return fmt.Errorf("%w: %f (must be in [%g, %g])", ErrInvalidWavelength, wavelength, MinWavelength, MaxWavelength)
	}
	return nil
}
