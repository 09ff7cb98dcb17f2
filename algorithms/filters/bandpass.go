package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/stalta/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
)

// Bandpass is a zero-phase Butterworth band-pass applied in the frequency
// domain.
//
// The trace is zero padded to at least twice its length (next power of two),
// transformed with mjibson/go-dsp, multiplied by the Butterworth magnitude
// response
//
//	|H(f)| = 1/sqrt(1+(fmin/f)^2n) * 1/sqrt(1+(f/fmax)^2n)
//
// and transformed back. No phase is applied, so onsets are not shifted in
// time.
type Bandpass struct {
	sampleRate float64
	freqMin    float64 // high-pass corner in Hz, 0 disables it
	freqMax    float64 // low-pass corner in Hz
	corners    int     // filter order n
}

// NewBandpass creates a band-pass filter.
//
// Parameters:
//   - sampleRate: Sample rate in Hz
//   - freqMin: Lower corner in Hz (0 for a pure low-pass)
//   - freqMax: Upper corner in Hz, below Nyquist
//   - corners: Butterworth order, at least 1
func NewBandpass(sampleRate, freqMin, freqMax float64, corners int) (*Bandpass, error) {
	bp := &Bandpass{
		sampleRate: sampleRate,
		freqMin:    freqMin,
		freqMax:    freqMax,
		corners:    corners,
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return bp, nil
}

// Validate checks the corner frequencies against the Nyquist frequency.
func (bp *Bandpass) Validate() error {
	nyquist := bp.sampleRate / 2
	if bp.sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %g", bp.sampleRate)
	}
	if bp.corners < 1 {
		return fmt.Errorf("corners must be at least 1, got %d", bp.corners)
	}
	if bp.freqMin < 0 || bp.freqMax <= bp.freqMin {
		return fmt.Errorf("band [%g, %g] Hz is empty", bp.freqMin, bp.freqMax)
	}
	if bp.freqMax >= nyquist {
		return fmt.Errorf("upper corner %g Hz must be below Nyquist (%g Hz)", bp.freqMax, nyquist)
	}
	return nil
}

// Gain returns the filter magnitude at frequency f (Hz).
func (bp *Bandpass) Gain(f float64) float64 {
	f = math.Abs(f)
	order := 2 * float64(bp.corners)

	gain := 1.0 / math.Sqrt(1+math.Pow(f/bp.freqMax, order))
	if bp.freqMin > 0 {
		if f == 0 {
			return 0
		}
		gain /= math.Sqrt(1 + math.Pow(bp.freqMin/f, order))
	}
	return gain
}

// Apply filters x and returns a new slice of the same length.
func (bp *Bandpass) Apply(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	nfft := common.NextPowerOfTwo(2 * n)
	padded := make([]float64, nfft)
	copy(padded, x)

	spectrum := fft.FFTReal(padded)
	df := bp.sampleRate / float64(nfft)
	for k := range spectrum {
		bin := k
		if k > nfft/2 {
			bin = nfft - k // negative frequencies mirror the positive ones
		}
		spectrum[k] *= complex(bp.Gain(float64(bin)*df), 0)
	}

	filtered := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i := range out {
		out[i] = real(filtered[i])
	}
	return out
}

// Corners returns the corner frequencies and the order.
func (bp *Bandpass) Corners() (freqMin, freqMax float64, order int) {
	return bp.freqMin, bp.freqMax, bp.corners
}
