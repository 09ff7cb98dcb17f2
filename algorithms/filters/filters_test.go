package filters_test

import (
	"math"
	"testing"

	"github.com/RyanBlaney/stalta/algorithms/filters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return x
}

func rms(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func TestDemean(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := filters.Demean(x)

	assert.InDeltaSlice(t, []float64{-2, -1, 0, 1, 2}, out, 1e-12)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, x, "input untouched")
	assert.Empty(t, filters.Demean(nil))
}

func TestDetrend(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = 3 + 0.5*float64(i)
	}

	out := filters.Detrend(x)
	for i, v := range out {
		assert.InDelta(t, 0.0, v, 1e-9, "sample %d", i)
	}
}

func TestTaper(t *testing.T) {
	_, err := filters.NewTaper(0)
	assert.Error(t, err)
	_, err = filters.NewTaper(0.6)
	assert.Error(t, err)

	taper, err := filters.NewTaper(0.1)
	require.NoError(t, err)

	w := taper.Coefficients(100)
	assert.Equal(t, 0.0, w[0])
	assert.Equal(t, 0.0, w[99])
	assert.Equal(t, 1.0, w[50])
	assert.InDelta(t, w[5], w[94], 1e-12, "symmetric")

	ones := make([]float64, 100)
	for i := range ones {
		ones[i] = 1
	}
	assert.Equal(t, w, taper.Apply(ones))
}

func TestBandpass_Validate(t *testing.T) {
	cases := []struct {
		name             string
		rate, fmin, fmax float64
		corners          int
	}{
		{"zero rate", 0, 1, 10, 4},
		{"no corners", 100, 1, 10, 0},
		{"empty band", 100, 10, 10, 4},
		{"negative min", 100, -1, 10, 4},
		{"above nyquist", 100, 1, 50, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := filters.NewBandpass(tc.rate, tc.fmin, tc.fmax, tc.corners)
			assert.Error(t, err)
		})
	}
}

func TestBandpass_PassesAndRejects(t *testing.T) {
	rate := 100.0
	bp, err := filters.NewBandpass(rate, 1, 10, 4)
	require.NoError(t, err)

	assert.Equal(t, 0.0, bp.Gain(0))
	assert.InDelta(t, 1.0, bp.Gain(4), 0.01)
	assert.InDelta(t, math.Sqrt(0.5), bp.Gain(10), 1e-6, "-3 dB at the corner")

	inBand := bp.Apply(sine(5, rate, 1000))
	require.Len(t, inBand, 1000)
	assert.InDelta(t, math.Sqrt(0.5), rms(inBand[200:800]), 0.03)

	outBand := bp.Apply(sine(40, rate, 1000))
	assert.Less(t, rms(outBand[200:800]), 0.02)
}

func TestBandpass_ZeroPhase(t *testing.T) {
	rate := 100.0
	bp, err := filters.NewBandpass(rate, 0.5, 20, 2)
	require.NoError(t, err)

	x := sine(3, rate, 2000)
	out := bp.Apply(x)

	// the peak of the filtered sine lines up with the peak of the input
	peak := 975 // 3 Hz crest: i*3/100 = 29.25 cycles
	assert.Greater(t, out[peak], out[peak-3])
	assert.Greater(t, out[peak], out[peak+3])
}

func TestConditioning(t *testing.T) {
	x := make([]float64, 400)
	for i := range x {
		x[i] = 10 + math.Sin(2*math.Pi*5*float64(i)/100)
	}
	orig := append([]float64(nil), x...)

	c := filters.DefaultConditioning()
	c.Bandpass = &filters.BandpassConfig{FreqMin: 1, FreqMax: 20, Corners: 4}
	require.True(t, c.Enabled())

	out, err := c.Apply(x, 100)
	require.NoError(t, err)
	assert.Len(t, out, len(x))
	assert.Equal(t, orig, x)
	assert.Less(t, math.Abs(out[0]), 0.2, "tapered start")
	assert.Less(t, math.Abs(out[200]), 1.5, "offset removed")

	c.Bandpass.FreqMax = 60
	_, err = c.Apply(x, 100)
	assert.Error(t, err)

	assert.False(t, filters.Conditioning{}.Enabled())
	_, err = filters.Conditioning{TaperFraction: 0.7}.Apply(x, 100)
	assert.Error(t, err)
}

func TestConditioning_ValidateSteps(t *testing.T) {
	require.NoError(t, filters.DefaultConditioning().ValidateSteps())

	// above Nyquist only fails once the rate is known
	c := filters.Conditioning{Bandpass: &filters.BandpassConfig{FreqMin: 1, FreqMax: 80, Corners: 2}}
	require.NoError(t, c.ValidateSteps())
	assert.Error(t, c.Validate(100))

	for name, bad := range map[string]filters.Conditioning{
		"taper":   {TaperFraction: -0.1},
		"corners": {Bandpass: &filters.BandpassConfig{FreqMin: 1, FreqMax: 10}},
		"band":    {Bandpass: &filters.BandpassConfig{FreqMin: 10, FreqMax: 10, Corners: 2}},
	} {
		assert.Error(t, bad.ValidateSteps(), name)
		assert.Error(t, bad.Validate(100), name)
	}
}
