package trigger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow is returned when a window length is non-positive or
	// not shorter than the input sequence.
	ErrInvalidWindow = errors.New("trigger: invalid window length")

	// ErrDegenerateStatistics is returned by the z-detector when the
	// standard deviation of the averaged energy is zero (flat input).
	ErrDegenerateStatistics = errors.New("trigger: zero variance in characteristic function")

	// ErrUnknownMethod is returned when a Method outside the known set is requested.
	ErrUnknownMethod = errors.New("trigger: unknown characteristic function method")

	// ErrNotStreamable is returned by NewStreamer for methods without a
	// chunked implementation.
	ErrNotStreamable = errors.New("trigger: method cannot be evaluated on a stream")
)

// checkWindow validates a single window length against the input length
// before any computation starts.
func checkWindow(name string, size, n int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s=%d must be positive", ErrInvalidWindow, name, size)
	}
	if size >= n {
		return fmt.Errorf("%w: %s=%d must be shorter than the input (%d samples)", ErrInvalidWindow, name, size, n)
	}
	return nil
}

func checkWindows(nsta, nlta, n int) error {
	if err := checkWindow("nsta", nsta, n); err != nil {
		return err
	}
	return checkWindow("nlta", nlta, n)
}
