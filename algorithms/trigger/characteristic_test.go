package trigger_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/RyanBlaney/stalta/algorithms/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noise returns n normally distributed samples from a fixed seed.
func noise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}

// naiveTrailingMean averages x over the window preceding each sample, with
// window copies of pad in front of x.
func naiveTrailingMean(x []float64, window int, pad float64) []float64 {
	out := make([]float64, len(x))
	for k := range x {
		sum := 0.0
		for j := k - window; j < k; j++ {
			if j < 0 {
				sum += pad
			} else {
				sum += x[j]
			}
		}
		out[k] = sum / float64(window)
	}
	return out
}

func TestCompute_LengthMatchesInput(t *testing.T) {
	x := noise(500, 7)
	p := trigger.Params{STA: 5, LTA: 40, Ratio: 0.8, Quiet: 0.8}

	for _, m := range trigger.Methods() {
		t.Run(m.String(), func(t *testing.T) {
			cf, err := trigger.Compute(x, m, p)
			require.NoError(t, err)
			assert.Len(t, cf, len(x))
		})
	}
}

func TestCompute_DoesNotModifyInput(t *testing.T) {
	x := noise(300, 3)
	orig := append([]float64(nil), x...)
	p := trigger.Params{STA: 3, LTA: 30, Ratio: 1, Quiet: 1}

	for _, m := range trigger.Methods() {
		cf, err := trigger.Compute(x, m, p)
		require.NoError(t, err, m.String())
		assert.Equal(t, orig, x, "input changed by %s", m)
		cf[len(cf)-1] = 12345
		assert.Equal(t, orig, x, "result of %s aliases the input", m)
	}
}

func TestCompute_InvalidWindows(t *testing.T) {
	x := noise(100, 1)

	cases := []struct {
		name string
		p    trigger.Params
	}{
		{"zero sta", trigger.Params{STA: 0, LTA: 10}},
		{"negative sta", trigger.Params{STA: -1, LTA: 10}},
		{"zero lta", trigger.Params{STA: 2, LTA: 0}},
		{"sta equals length", trigger.Params{STA: 100, LTA: 10}},
		{"lta equals length", trigger.Params{STA: 2, LTA: 100}},
		{"lta exceeds length", trigger.Params{STA: 2, LTA: 500}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, m := range trigger.Methods() {
				_, err := trigger.Compute(x, m, tc.p)
				assert.ErrorIs(t, err, trigger.ErrInvalidWindow, m.String())
			}
		})
	}

	_, err := trigger.Compute(nil, trigger.Classic, trigger.Params{STA: 1, LTA: 2})
	assert.ErrorIs(t, err, trigger.ErrInvalidWindow, "empty input")
}

func TestCompute_UnknownMethod(t *testing.T) {
	_, err := trigger.Compute(noise(50, 1), trigger.Method(42), trigger.Params{STA: 2, LTA: 10})
	assert.ErrorIs(t, err, trigger.ErrUnknownMethod)
}

func TestRecursiveSTALTA_MatchesRecurrence(t *testing.T) {
	x := make([]float64, 12)
	for i := range x {
		x[i] = 1
	}

	cf, err := trigger.RecursiveSTALTA(x, 2, 4)
	require.NoError(t, err)

	for i := range 4 {
		assert.Equal(t, 0.0, cf[i], "warm-up sample %d", i)
	}
	// with unit input sta_i = 1-(1/2)^i and lta_i = 1-(3/4)^i
	for i := 4; i < len(x); i++ {
		want := (1 - math.Pow(0.5, float64(i))) / (1 - math.Pow(0.75, float64(i)))
		assert.InDelta(t, want, cf[i], 1e-12, "sample %d", i)
	}
}

func TestRecursiveSTALTA_ZeroInput(t *testing.T) {
	// long enough for the lta seed to underflow to zero
	x := make([]float64, 5000)

	cf, err := trigger.RecursiveSTALTA(x, 1, 2)
	require.NoError(t, err)
	for i, v := range cf {
		require.False(t, math.IsNaN(v), "NaN at %d", i)
		require.Equal(t, 0.0, v, "sample %d", i)
	}
}

func TestClassicSTALTA_MatchesPaddedWindows(t *testing.T) {
	x := noise(400, 11)
	nsta, nlta := 7, 50

	cf, err := trigger.ClassicSTALTA(x, nsta, nlta)
	require.NoError(t, err)

	sq := make([]float64, len(x))
	for i, v := range x {
		sq[i] = v * v
	}
	sta := naiveTrailingMean(sq, nsta, 0)
	lta := naiveTrailingMean(sq, nlta, 1)

	for k := range x {
		want := 0.0
		if k >= nlta {
			want = sta[k] / lta[k]
		}
		assert.InDelta(t, want, cf[k], 1e-9, "sample %d", k)
	}
}

func TestClassicSTALTA_Step(t *testing.T) {
	x := make([]float64, 20)
	for k := 10; k < len(x); k++ {
		x[k] = 1
	}

	cf, err := trigger.ClassicSTALTA(x, 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cf[0])
	assert.Equal(t, 0.0, cf[10], "silent windows give 0, not NaN")
	assert.InDelta(t, 2.0, cf[11], 1e-12)
	assert.InDelta(t, 2.0, cf[12], 1e-12)
	assert.InDelta(t, 4.0/3.0, cf[13], 1e-12)
	assert.InDelta(t, 1.0, cf[14], 1e-12)
	assert.InDelta(t, 1.0, cf[19], 1e-12)
}

func TestClassicSTALTA_ZeroInput(t *testing.T) {
	cf, err := trigger.ClassicSTALTA(make([]float64, 100), 5, 20)
	require.NoError(t, err)
	for i, v := range cf {
		require.Equal(t, 0.0, v, "sample %d", i)
	}
}

func TestDelayedSTALTA_ConstantInput(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = 1
	}
	nsta, nlta := 2, 4

	cf, err := trigger.DelayedSTALTA(x, nsta, nlta)
	require.NoError(t, err)
	require.Len(t, cf, len(x))

	for i := range nsta + nlta + 50 {
		assert.Equal(t, 0.0, cf[i], "warm-up sample %d", i)
	}

	for _, i := range []int{56, 80, 99} {
		sta := 1 + 2*float64(i-nsta+1)/float64(nsta)
		lta := 1 + 2*float64(i-nsta-nlta)/float64(nlta)
		assert.InDelta(t, sta/lta, cf[i], 1e-9, "sample %d", i)
	}
}

func TestDelayedSTALTA_WarmupLongerThanTrace(t *testing.T) {
	cf, err := trigger.DelayedSTALTA(noise(40, 5), 5, 20)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 40), cf)
}

func TestCarlSTATrig_WarmupAndQuietLevel(t *testing.T) {
	nsta, nlta := 3, 12
	cf, err := trigger.CarlSTATrig(make([]float64, 60), nsta, nlta, 0.8, 0.5)
	require.NoError(t, err)

	for i := range nlta {
		assert.Equal(t, -1.0, cf[i], "warm-up sample %d", i)
	}
	for i := nlta; i < len(cf); i++ {
		assert.InDelta(t, -0.5, cf[i], 1e-12, "silent trace sits at -quiet (sample %d)", i)
	}
}

func TestCarlSTATrig_MatchesDirectCascade(t *testing.T) {
	nsta, nlta := 7, 60
	ratio, quiet := 0.8, 0.3

	x := noise(600, 13)
	for i := range x {
		x[i] += 2
	}
	for i := 400; i < 450; i++ {
		x[i] *= 4
	}

	cf, err := trigger.CarlSTATrig(x, nsta, nlta, ratio, quiet)
	require.NoError(t, err)

	// full windows only, zero before the first one
	mean := func(v []float64, w int) []float64 {
		out := make([]float64, len(v))
		for k := w; k < len(v); k++ {
			for j := k - w; j < k; j++ {
				out[k] += v[j]
			}
			out[k] /= float64(w)
		}
		return out
	}

	sta := mean(x, nsta)
	avg := mean(sta, nlta)
	lta := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		lta[i] = avg[i-1]
	}
	dev := make([]float64, len(x))
	for i := range x {
		dev[i] = math.Abs(x[i] - lta[i])
	}
	star := mean(dev, nsta)
	ltar := mean(star, nlta)

	for i := range x {
		want := -1.0
		if i >= nlta {
			want = star[i] - ratio*ltar[i] - math.Abs(sta[i]-lta[i]) - quiet
		}
		require.InDelta(t, want, cf[i], 1e-9, "sample %d", i)
	}
}

func TestCarlSTATrig_RisesAtOnset(t *testing.T) {
	x := make([]float64, 400)
	for i := 300; i < len(x); i++ {
		x[i] = 5 * math.Sin(float64(i))
	}

	cf, err := trigger.CarlSTATrig(x, 5, 50, 0.8, 0.1)
	require.NoError(t, err)

	assert.InDelta(t, -0.1, cf[250], 1e-12, "before the onset")
	assert.Greater(t, cf[310], 0.0, "after the onset")
}

func TestZDetect_Standardised(t *testing.T) {
	x := noise(2000, 21)
	for i := 1200; i < 1400; i++ {
		x[i] *= 6
	}

	cf, err := trigger.ZDetect(x, 20)
	require.NoError(t, err)
	require.Len(t, cf, len(x))

	mean, sq := 0.0, 0.0
	for _, v := range cf {
		mean += v
	}
	mean /= float64(len(cf))
	for _, v := range cf {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(cf)))

	assert.InDelta(t, 0.0, mean, 1e-9)
	assert.InDelta(t, 1.0, std, 1e-9)
	assert.Greater(t, cf[1300], cf[600], "energy burst stands out")
}

func TestZDetect_FlatInput(t *testing.T) {
	_, err := trigger.ZDetect(make([]float64, 100), 10)
	assert.ErrorIs(t, err, trigger.ErrDegenerateStatistics)

	_, err = trigger.Compute(make([]float64, 100), trigger.ZDetector, trigger.Params{STA: 10, LTA: 50})
	assert.ErrorIs(t, err, trigger.ErrDegenerateStatistics)
}

func TestZDetect_OnlyChecksSTA(t *testing.T) {
	_, err := trigger.ZDetect(noise(50, 2), 0)
	assert.ErrorIs(t, err, trigger.ErrInvalidWindow)

	cf, err := trigger.ZDetect(noise(50, 2), 5)
	require.NoError(t, err)
	assert.Len(t, cf, 50)
}

func TestParseMethod(t *testing.T) {
	for _, m := range trigger.Methods() {
		parsed, err := trigger.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	m, err := trigger.ParseMethod(" RecSTALTA ")
	require.NoError(t, err)
	assert.Equal(t, trigger.Recursive, m)

	_, err = trigger.ParseMethod("aic")
	assert.ErrorIs(t, err, trigger.ErrUnknownMethod)

	assert.False(t, trigger.ZDetector.Causal())
	assert.True(t, trigger.Classic.Causal())
	assert.Equal(t, "method(9)", trigger.Method(9).String())
}
