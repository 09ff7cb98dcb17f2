package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the characteristic functions and the filters.
// All functions allocate their result and leave the input untouched.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopMeanStdDev returns the mean and the population (biased) standard
// deviation of data, i.e. the variance is normalised by len(data).
func PopMeanStdDev(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return stat.PopMeanStdDev(data, nil)
}

// Squares returns x[i]*x[i] for every sample.
func Squares(x []float64) []float64 {
	sq := make([]float64, len(x))
	for i, v := range x {
		sq[i] = v * v
	}
	return sq
}

// AbsDiff returns |x[i]-y[i]| over the common length of x and y.
func AbsDiff(x, y []float64) []float64 {
	n := min(len(x), len(y))
	out := make([]float64, n)
	for i := range n {
		out[i] = math.Abs(x[i] - y[i])
	}
	return out
}

// TrailingSum returns out[k] = sum(x[k-window : k]) for k >= window.
// The first window entries hold window*pad, as if x were preceded by
// window copies of pad. The sum is maintained incrementally in O(len(x)).
func TrailingSum(x []float64, window int, pad float64) []float64 {
	out := make([]float64, len(x))
	if window <= 0 {
		return out
	}

	head := min(window, len(x))
	padded := pad * float64(window)
	for k := range head {
		out[k] = padded
	}
	if window >= len(x) {
		return out
	}

	sum := floats.Sum(x[:window])
	for k := window; k < len(x); k++ {
		out[k] = sum
		sum += x[k] - x[k-window]
	}

	return out
}

// TrailingMean is TrailingSum divided by window; the first window entries
// hold pad.
func TrailingMean(x []float64, window int, pad float64) []float64 {
	out := TrailingSum(x, window, pad)
	if window <= 0 {
		return out
	}
	floats.Scale(1.0/float64(window), out)
	// rescaling window*pad/window may not round-trip exactly
	for k := range min(window, len(out)) {
		out[k] = pad
	}
	return out
}

// SafeRatio divides num by den element-wise; entries where den is zero are
// set to zero instead of NaN or Inf.
func SafeRatio(num, den []float64) []float64 {
	n := min(len(num), len(den))
	out := make([]float64, n)
	for i := range n {
		if den[i] != 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out
}

// LinearTrend fits y = intercept + slope*i over the sample index i using
// gonum's least squares regression.
func LinearTrend(y []float64) (intercept, slope float64) {
	if len(y) < 2 {
		return Mean(y), 0.0
	}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return stat.LinearRegression(x, y, nil, false)
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
