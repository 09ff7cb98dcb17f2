// Package pickers adapts the external phase pickers (the Baer P-picker and
// the AR picker) to Go callers. The pickers themselves are compiled routines
// supplied by the caller as plain functions; this package converts the
// samples to their float32 layout, fixes up their index conventions and turns
// a non-zero status code into a *NativePickerError.
package pickers

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned before a picker is called when the samples
// cannot be handed to it (empty trace, mismatched components).
var ErrInvalidInput = errors.New("pickers: invalid input")

// NativePickerError carries the status code returned by an external picker.
type NativePickerError struct {
	Picker string
	Code   int
}

func (e *NativePickerError) Error() string {
	return fmt.Sprintf("pickers: %s returned error code %d", e.Picker, e.Code)
}

// Polarity is the first motion direction reported by the Baer picker.
type Polarity string

const (
	PolarityUp      Polarity = "U"
	PolarityDown    Polarity = "D"
	PolarityUnknown Polarity = ""
)

// parsePolarity reads the first-motion field, which native routines pad
// with spaces or NUL bytes.
func parsePolarity(raw string) Polarity {
	for _, r := range raw {
		switch r {
		case 'U', 'u', '+':
			return PolarityUp
		case 'D', 'd', '-':
			return PolarityDown
		}
	}
	return PolarityUnknown
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}
