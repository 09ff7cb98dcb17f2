package pickers

import (
	"fmt"
)

// BaerParams are the tuning parameters of the Baer & Kradolfer P-picker.
type BaerParams struct {
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"` // samples per second
	TDownMax   int     `json:"tdownmax" yaml:"tdownmax"`       // samples below thr1 before the trigger is re-examined
	TUpEvent   int     `json:"tupevent" yaml:"tupevent"`       // minimum samples above thr1 for a pick
	Thr1       float64 `json:"thr1" yaml:"thr1"`               // pick threshold
	Thr2       float64 `json:"thr2" yaml:"thr2"`               // threshold for updating sigma
	PresetLen  int     `json:"preset_len" yaml:"preset_len"`   // samples used to estimate the initial variance
	PDur       int     `json:"p_dur" yaml:"p_dur"`             // samples over which the maximum amplitude is evaluated
}

// BaerFunc is the native Baer routine. It receives the samples and the
// number of samples it may use (len(data)-1, because the routine counts from
// index 1), and returns the pick index relative to that numbering, the raw
// first-motion field and a status code where 0 means success.
type BaerFunc func(data []float32, n int, p BaerParams) (index int, polarity string, code int)

// BaerPick is a P arrival picked by the Baer routine.
type BaerPick struct {
	Sample   int      `json:"sample"`
	Polarity Polarity `json:"polarity"`
}

// Time returns the pick time in seconds from the first sample.
func (p BaerPick) Time(sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(p.Sample) / sampleRate
}

// PkBaer runs the Baer picker on x. The returned Sample indexes x directly.
func PkBaer(fn BaerFunc, x []float64, p BaerParams) (BaerPick, error) {
	if fn == nil {
		return BaerPick{}, fmt.Errorf("%w: no baer routine", ErrInvalidInput)
	}
	if len(x) < 2 {
		return BaerPick{}, fmt.Errorf("%w: baer picker needs at least 2 samples, got %d", ErrInvalidInput, len(x))
	}
	if p.SampleRate <= 0 {
		return BaerPick{}, fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	}

	index, raw, code := fn(toFloat32(x), len(x)-1, p)
	if code != 0 {
		return BaerPick{}, &NativePickerError{Picker: "baer", Code: code}
	}

	// the routine skips sample 0
	return BaerPick{Sample: index + 1, Polarity: parsePolarity(raw)}, nil
}
