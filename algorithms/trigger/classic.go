package trigger

import (
	"github.com/RyanBlaney/stalta/algorithms/common"
)

// ClassicSTALTA computes the standard STA/LTA ratio over trailing
// rectangular windows.
//
// For sample k the STA is the mean energy of a[k-nsta:k] and the LTA the
// mean energy of a[k-nlta:k]; neither includes a[k]. Before a window is
// full the STA reads as 0 and the LTA as 1, so the start never divides 0 by 0.
// The first nlta STA values are then forced to 0. Sliding sums keep the
// whole computation O(len(a)).
func ClassicSTALTA(a []float64, nsta, nlta int) ([]float64, error) {
	if err := checkWindows(nsta, nlta, len(a)); err != nil {
		return nil, err
	}
	return classicSTALTA(a, nsta, nlta), nil
}

func classicSTALTA(a []float64, nsta, nlta int) []float64 {
	energy := common.Squares(a)

	sta := common.TrailingMean(energy, nsta, 0.0)
	lta := common.TrailingMean(energy, nlta, 1.0)

	// mute the warm-up region
	for k := range min(nlta, len(sta)) {
		sta[k] = 0.0
	}

	return common.SafeRatio(sta, lta)
}
