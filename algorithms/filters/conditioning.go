package filters

import (
	"fmt"
)

// BandpassConfig describes an optional band-pass stage.
type BandpassConfig struct {
	FreqMin float64 `json:"freq_min" yaml:"freq_min"`
	FreqMax float64 `json:"freq_max" yaml:"freq_max"`
	Corners int     `json:"corners" yaml:"corners"`
}

// Conditioning lists the pre-trigger processing steps. They run in a fixed
// order: detrend or demean, taper, band-pass.
type Conditioning struct {
	Demean        bool            `json:"demean" yaml:"demean"`
	Detrend       bool            `json:"detrend" yaml:"detrend"`
	TaperFraction float64         `json:"taper_fraction,omitempty" yaml:"taper_fraction,omitempty"`
	Bandpass      *BandpassConfig `json:"bandpass,omitempty" yaml:"bandpass,omitempty"`
}

// DefaultConditioning removes the mean and tapers 5% at each end, without
// band-pass filtering.
func DefaultConditioning() Conditioning {
	return Conditioning{
		Demean:        true,
		TaperFraction: 0.05,
	}
}

// Enabled reports whether any step is configured.
func (c Conditioning) Enabled() bool {
	return c.Demean || c.Detrend || c.TaperFraction > 0 || c.Bandpass != nil
}

// ValidateSteps checks the parameters that do not depend on the sample rate.
func (c Conditioning) ValidateSteps() error {
	if c.TaperFraction < 0 || c.TaperFraction > 0.5 {
		return fmt.Errorf("taper fraction must be in [0, 0.5], got %g", c.TaperFraction)
	}
	if bp := c.Bandpass; bp != nil {
		if bp.Corners < 1 {
			return fmt.Errorf("bandpass: corners must be at least 1, got %d", bp.Corners)
		}
		if bp.FreqMin < 0 || bp.FreqMax <= bp.FreqMin {
			return fmt.Errorf("bandpass: band [%g, %g] Hz is empty", bp.FreqMin, bp.FreqMax)
		}
	}
	return nil
}

// Validate checks the step parameters for a trace sampled at sampleRate.
func (c Conditioning) Validate(sampleRate float64) error {
	if err := c.ValidateSteps(); err != nil {
		return err
	}
	if c.Bandpass != nil {
		bp := Bandpass{sampleRate: sampleRate, freqMin: c.Bandpass.FreqMin, freqMax: c.Bandpass.FreqMax, corners: c.Bandpass.Corners}
		if err := bp.Validate(); err != nil {
			return fmt.Errorf("bandpass: %w", err)
		}
	}
	return nil
}

// Apply runs the configured steps on a copy of x. The input is not modified.
func (c Conditioning) Apply(x []float64, sampleRate float64) ([]float64, error) {
	if err := c.Validate(sampleRate); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	copy(out, x)

	// detrending also removes the mean
	switch {
	case c.Detrend:
		out = Detrend(out)
	case c.Demean:
		out = Demean(out)
	}

	if c.TaperFraction > 0 {
		taper, err := NewTaper(c.TaperFraction)
		if err != nil {
			return nil, err
		}
		out = taper.Apply(out)
	}

	if c.Bandpass != nil {
		bp, err := NewBandpass(sampleRate, c.Bandpass.FreqMin, c.Bandpass.FreqMax, c.Bandpass.Corners)
		if err != nil {
			return nil, fmt.Errorf("bandpass: %w", err)
		}
		out = bp.Apply(out)
	}

	return out, nil
}
