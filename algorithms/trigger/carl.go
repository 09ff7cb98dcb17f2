package trigger

import (
	"math"

	"github.com/RyanBlaney/stalta/algorithms/common"
)

// carlInvalid marks the warm-up region of the Carl-Sta-Trig function so it
// can be told apart from a genuinely negative value.
const carlInvalid = -1.0

// CarlSTATrig computes the Carl-Sta-Trig characteristic function
//
//	eta = star - ratio*ltar - |sta - lta| - quiet
//
// where sta is the trailing mean of the raw samples over nsta, lta the
// trailing mean of sta over nlta delayed by one sample, star the trailing
// mean of |a - lta| over nsta and ltar the trailing mean of star over nlta.
// All averages are zero-padded at the start. Smaller ratio and quiet values
// make the trigger more sensitive. The first nlta samples are set to -1.
func CarlSTATrig(a []float64, nsta, nlta int, ratio, quiet float64) ([]float64, error) {
	if err := checkWindows(nsta, nlta, len(a)); err != nil {
		return nil, err
	}
	return carlSTATrig(a, nsta, nlta, ratio, quiet), nil
}

func carlSTATrig(a []float64, nsta, nlta int, ratio, quiet float64) []float64 {
	n := len(a)

	sta := common.TrailingMean(a, nsta, 0.0)

	// lta lags sta's average by one more sample
	avg := common.TrailingMean(sta, nlta, 0.0)
	lta := make([]float64, n)
	copy(lta[1:], avg[:n-1])

	star := common.TrailingMean(common.AbsDiff(a, lta), nsta, 0.0)
	ltar := common.TrailingMean(star, nlta, 0.0)

	eta := make([]float64, n)
	for i := range n {
		if i < nlta {
			eta[i] = carlInvalid
			continue
		}
		eta[i] = star[i] - ratio*ltar[i] - math.Abs(sta[i]-lta[i]) - quiet
	}

	return eta
}
