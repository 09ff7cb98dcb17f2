package trigger

import (
	"github.com/RyanBlaney/stalta/algorithms/common"
)

// ZDetect computes the Z-detector characteristic function (Swindell and
// Snell, 1977): the trailing energy sum over nsta samples (zero for the
// first nsta samples), standardised with the mean and population standard
// deviation of the whole sequence.
//
// The normalisation needs the complete trace, so this function cannot be
// evaluated incrementally. A flat energy sequence returns
// ErrDegenerateStatistics.
func ZDetect(a []float64, nsta int) ([]float64, error) {
	if err := checkWindow("nsta", nsta, len(a)); err != nil {
		return nil, err
	}
	return zDetect(a, nsta)
}

func zDetect(a []float64, nsta int) ([]float64, error) {
	sta := common.TrailingSum(common.Squares(a), nsta, 0.0)

	mean, std := common.PopMeanStdDev(sta)
	if std == 0 {
		return nil, ErrDegenerateStatistics
	}

	for i, v := range sta {
		sta[i] = (v - mean) / std
	}
	return sta, nil
}
