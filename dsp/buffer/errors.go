package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrOverrun is returned by Write when the free space is smaller than
	// the payload. Nothing is written.
	ErrOverrun = errors.New("buffer: transport overrun")
	// ErrUnderrun is returned by Read together with a short count when
	// fewer bytes are available than requested.
	ErrUnderrun = errors.New("buffer: transport underrun")
	// ErrInvalidCapacity is returned for non-positive capacities.
	ErrInvalidCapacity = errors.New("buffer: invalid capacity")
)

func validateCapacity(capacity int) error {
	if capacity <= 0 || capacity > maxCapacity {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidCapacity, capacity, maxCapacity)
	}
	return nil
}
