package pickers

import (
	"fmt"
)

// ARParams are the tuning parameters of the three-component AR picker.
// Window lengths are in seconds.
type ARParams struct {
	SampleRate float64 `json:"sample_rate" yaml:"sample_rate"`
	F1         float64 `json:"f1" yaml:"f1"` // lower band-pass corner (Hz)
	F2         float64 `json:"f2" yaml:"f2"` // upper band-pass corner (Hz)
	LTAP       float64 `json:"lta_p" yaml:"lta_p"`
	STAP       float64 `json:"sta_p" yaml:"sta_p"`
	LTAS       float64 `json:"lta_s" yaml:"lta_s"`
	STAS       float64 `json:"sta_s" yaml:"sta_s"`
	MP         int     `json:"m_p" yaml:"m_p"` // AR coefficients for P
	MS         int     `json:"m_s" yaml:"m_s"` // AR coefficients for S
	LP         float64 `json:"l_p" yaml:"l_p"` // variance window for P
	LS         float64 `json:"l_s" yaml:"l_s"` // variance window for S
	SPick      bool    `json:"s_pick" yaml:"s_pick"`
}

// ARFunc is the native AR routine. It takes the vertical, north and east
// components and returns the P and S arrival times in seconds and a status
// code where 0 means success.
type ARFunc func(z, n, e []float32, p ARParams) (ptime, stime float32, code int)

// ARPicks holds the arrival times returned by the AR picker, in seconds from
// the first sample. S is zero when SPick was not requested.
type ARPicks struct {
	P float64 `json:"p"`
	S float64 `json:"s"`
}

// ARPick runs the AR picker on three equally long components.
func ARPick(fn ARFunc, z, n, e []float64, p ARParams) (ARPicks, error) {
	if fn == nil {
		return ARPicks{}, fmt.Errorf("%w: no ar routine", ErrInvalidInput)
	}
	if len(z) == 0 {
		return ARPicks{}, fmt.Errorf("%w: empty vertical component", ErrInvalidInput)
	}
	if len(n) != len(z) || len(e) != len(z) {
		return ARPicks{}, fmt.Errorf("%w: component lengths differ (z=%d n=%d e=%d)", ErrInvalidInput, len(z), len(n), len(e))
	}
	if p.SampleRate <= 0 {
		return ARPicks{}, fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	}
	if p.F1 >= p.F2 {
		return ARPicks{}, fmt.Errorf("%w: band [%g, %g] Hz is empty", ErrInvalidInput, p.F1, p.F2)
	}

	ptime, stime, code := fn(toFloat32(z), toFloat32(n), toFloat32(e), p)
	if code != 0 {
		return ARPicks{}, &NativePickerError{Picker: "ar", Code: code}
	}

	picks := ARPicks{P: float64(ptime)}
	if p.SPick {
		picks.S = float64(stime)
	}
	return picks, nil
}
