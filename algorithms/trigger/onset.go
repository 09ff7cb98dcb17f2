package trigger

import (
	"math"
)

// openEnd marks an off candidate whose run above the release threshold is
// still open when the characteristic function ends.
const openEnd = math.MaxInt

// Interval is a detected event as inclusive sample offsets, On <= Off.
type Interval struct {
	On  int `json:"on"`
	Off int `json:"off"`
}

// Len returns the number of samples between the on and off offsets.
func (iv Interval) Len() int {
	return iv.Off - iv.On
}

// OnsetOptions controls the maximum event duration policy of Onset.
type OnsetOptions struct {
	// MaxLen is the maximum event length (Off-On) in samples. A negative
	// value disables the limit.
	MaxLen int `json:"max_len" yaml:"max_len"`

	// MaxLenDelete drops events longer than MaxLen instead of truncating
	// them, and drops an event still open at the end of the trace.
	MaxLenDelete bool `json:"max_len_delete" yaml:"max_len_delete"`
}

// DefaultOnsetOptions returns options with no length limit.
func DefaultOnsetOptions() OnsetOptions {
	return OnsetOptions{
		MaxLen:       math.MaxInt,
		MaxLenDelete: false,
	}
}

// Onset turns a characteristic function into trigger intervals using two
// thresholds with hysteresis: an event opens on the first sample of a run
// above thrOn and closes on the last sample of the enclosing run above thrOff.
// Re-crossings of thrOn inside an open event do not start a new one.
//
// Events longer than opts.MaxLen are truncated to [on, on+MaxLen] and the
// detector re-arms on the next thrOn crossing after the truncation point. With
// opts.MaxLenDelete they are dropped instead, and so is an event whose
// release run reaches the last sample.
//
// A nil opts uses DefaultOnsetOptions. The result is ordered, non-overlapping
// and never nil.
func Onset(cf []float64, thrOn, thrOff float64, opts *OnsetOptions) []Interval {
	o := DefaultOnsetOptions()
	if opts != nil {
		o = *opts
	}
	if o.MaxLen < 0 {
		o.MaxLen = math.MaxInt
	}

	ons := runStarts(cf, thrOn)
	if len(ons) == 0 {
		return []Interval{}
	}
	offs := runEnds(cf, thrOff, o.MaxLenDelete)

	picks := []Interval{}
	last := -1 // off offset of the previous event
	j := 0
	for _, on := range ons {
		if on <= last {
			continue
		}
		for j < len(offs) && offs[j] < on {
			j++
		}
		if j == len(offs) || offs[j] == openEnd {
			// no release left for this or any later onset
			break
		}

		off := offs[j]
		if off-on > o.MaxLen {
			if o.MaxLenDelete {
				last = off
				continue
			}
			off = on + o.MaxLen
		}

		picks = append(picks, Interval{On: on, Off: off})
		last = off
	}

	return picks
}

// runStarts returns the first index of every run of samples above thr.
func runStarts(cf []float64, thr float64) []int {
	var starts []int
	prev := false
	for i, v := range cf {
		above := v > thr
		if above && !prev {
			starts = append(starts, i)
		}
		prev = above
	}
	return starts
}

// runEnds returns the last index of every run of samples above thr. When
// markOpen is set and the final run reaches the end of cf, its end is
// reported as openEnd.
func runEnds(cf []float64, thr float64, markOpen bool) []int {
	var ends []int
	for i, v := range cf {
		if v <= thr {
			continue
		}
		if i+1 < len(cf) && cf[i+1] > thr {
			continue
		}
		if i == len(cf)-1 && markOpen {
			ends = append(ends, openEnd)
			continue
		}
		ends = append(ends, i)
	}
	return ends
}
