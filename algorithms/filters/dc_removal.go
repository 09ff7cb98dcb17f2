package filters

import (
	"github.com/RyanBlaney/stalta/algorithms/common"
)

// Demean removes the DC offset from a trace.
func Demean(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	mean := common.Mean(x)
	for i, v := range x {
		out[i] = v - mean
	}
	return out
}

// Detrend removes the least-squares linear trend (offset and drift) from a
// trace.
func Detrend(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	intercept, slope := common.LinearTrend(x)
	for i, v := range x {
		out[i] = v - (intercept + slope*float64(i))
	}
	return out
}
