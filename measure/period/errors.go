package period

import (
	"errors"
	"fmt"
)

var (
	// ErrShortSignal is returned when the frame is too short for the lag range.
	ErrShortSignal = errors.New("period: signal too short")
	// ErrInvalidLagRange is returned for empty or negative lag ranges.
	ErrInvalidLagRange = errors.New("period: invalid lag range")
	// ErrNoPeriod is returned for silent or aperiodic input.
	ErrNoPeriod = errors.New("period: no periodicity found")
)

func validateLagRange(minLag, maxLag int) error {
	if minLag < 2 || maxLag <= minLag {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidLagRange, minLag, maxLag)
	}
	return nil
}
