package filters

import (
	"fmt"
	"math"
)

// Taper applies a cosine (Tukey) taper to both ends of a trace so the
// band-pass does not ring on the step between the first/last sample and the
// zero padding.
type Taper struct {
	fraction float64 // fraction of the trace tapered at each end, (0, 0.5]
}

// NewTaper creates a taper covering fraction of the trace at each end.
func NewTaper(fraction float64) (*Taper, error) {
	if fraction <= 0 || fraction > 0.5 || math.IsNaN(fraction) {
		return nil, fmt.Errorf("taper fraction must be in (0, 0.5], got %g", fraction)
	}
	return &Taper{fraction: fraction}, nil
}

// Coefficients returns the taper weights for a trace of n samples.
func (t *Taper) Coefficients(n int) []float64 {
	w := make([]float64, n)
	m := int(t.fraction * float64(n))

	for i := range n {
		switch {
		case i < m:
			// Rising cosine
			w[i] = 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(m)))
		case i >= n-m:
			// Falling cosine
			w[i] = 0.5 * (1 - math.Cos(math.Pi*float64(n-1-i)/float64(m)))
		default:
			w[i] = 1.0
		}
	}

	return w
}

// Apply returns a tapered copy of x.
func (t *Taper) Apply(x []float64) []float64 {
	w := t.Coefficients(len(x))
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * w[i]
	}
	return out
}

// Fraction returns the tapered fraction at each end.
func (t *Taper) Fraction() float64 {
	return t.fraction
}
