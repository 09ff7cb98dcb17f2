package pickers_test

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/stalta/algorithms/pickers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPkBaer(t *testing.T) {
	x := []float64{0, 0.5, 1, 4, 2}
	var gotN int
	var gotData []float32

	fn := func(data []float32, n int, p pickers.BaerParams) (int, string, int) {
		gotData, gotN = data, n
		return 2, "D    ", 0
	}

	pick, err := pickers.PkBaer(fn, x, pickers.BaerParams{SampleRate: 100})
	require.NoError(t, err)

	assert.Equal(t, 4, gotN, "routine does not use sample 0")
	assert.Equal(t, []float32{0, 0.5, 1, 4, 2}, gotData)
	assert.Equal(t, 3, pick.Sample)
	assert.Equal(t, pickers.PolarityDown, pick.Polarity)
	assert.InDelta(t, 0.03, pick.Time(100), 1e-12)
}

func TestPkBaer_NativeError(t *testing.T) {
	fn := func([]float32, int, pickers.BaerParams) (int, string, int) {
		return 0, "", 7
	}

	_, err := pickers.PkBaer(fn, []float64{1, 2, 3}, pickers.BaerParams{SampleRate: 50})
	var nerr *pickers.NativePickerError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "baer", nerr.Picker)
	assert.Equal(t, 7, nerr.Code)
	assert.Contains(t, err.Error(), "code 7")
}

func TestPkBaer_InvalidInput(t *testing.T) {
	called := false
	fn := func([]float32, int, pickers.BaerParams) (int, string, int) {
		called = true
		return 0, "", 0
	}

	_, err := pickers.PkBaer(fn, []float64{1}, pickers.BaerParams{SampleRate: 50})
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)
	_, err = pickers.PkBaer(fn, []float64{1, 2}, pickers.BaerParams{})
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)
	_, err = pickers.PkBaer(nil, []float64{1, 2}, pickers.BaerParams{SampleRate: 50})
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)
	assert.False(t, called)
}

func TestPkBaer_UnknownPolarity(t *testing.T) {
	fn := func([]float32, int, pickers.BaerParams) (int, string, int) {
		return 10, "\x00\x00", 0
	}

	pick, err := pickers.PkBaer(fn, make([]float64, 20), pickers.BaerParams{SampleRate: 20})
	require.NoError(t, err)
	assert.Equal(t, pickers.PolarityUnknown, pick.Polarity)
	assert.Equal(t, 11, pick.Sample)
}

func TestARPick(t *testing.T) {
	z := []float64{1, 2, 3}
	fn := func(zz, nn, ee []float32, p pickers.ARParams) (float32, float32, int) {
		assert.Len(t, nn, 3)
		assert.Len(t, ee, 3)
		return 1.5, 4.25, 0
	}

	params := pickers.ARParams{SampleRate: 20, F1: 1, F2: 20, SPick: true}
	picks, err := pickers.ARPick(fn, z, z, z, params)
	require.NoError(t, err)
	assert.Equal(t, pickers.ARPicks{P: 1.5, S: 4.25}, picks)

	params.SPick = false
	picks, err = pickers.ARPick(fn, z, z, z, params)
	require.NoError(t, err)
	assert.Equal(t, 0.0, picks.S)
}

func TestARPick_Errors(t *testing.T) {
	ok := func([]float32, []float32, []float32, pickers.ARParams) (float32, float32, int) {
		return 0, 0, 0
	}
	failing := func([]float32, []float32, []float32, pickers.ARParams) (float32, float32, int) {
		return 0, 0, -3
	}
	z := []float64{1, 2, 3}
	params := pickers.ARParams{SampleRate: 20, F1: 1, F2: 5}

	_, err := pickers.ARPick(ok, z, z[:2], z, params)
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)

	_, err = pickers.ARPick(ok, nil, nil, nil, params)
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)

	_, err = pickers.ARPick(ok, z, z, z, pickers.ARParams{SampleRate: 20, F1: 5, F2: 1})
	assert.ErrorIs(t, err, pickers.ErrInvalidInput)

	_, err = pickers.ARPick(failing, z, z, z, params)
	var nerr *pickers.NativePickerError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, -3, nerr.Code)
	assert.Equal(t, "ar", nerr.Picker)
}
