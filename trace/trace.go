// Package trace holds the waveform wrapper consumed by the detector and the
// readers that load samples from disk.
package trace

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/RyanBlaney/stalta/algorithms/trigger"
)

// ErrInvalidTrace is returned by Validate.
var ErrInvalidTrace = errors.New("trace: invalid trace")

// Trace is one uniformly sampled channel.
type Trace struct {
	ID         string    `json:"id"`          // e.g. network.station.location.channel
	SampleRate float64   `json:"sample_rate"` // Hz
	StartTime  time.Time `json:"start_time"`  // time of Samples[0], zero when unknown
	Samples    []float64 `json:"-"`
}

// New creates a trace. The samples are not copied.
func New(id string, sampleRate float64, samples []float64) *Trace {
	return &Trace{
		ID:         id,
		SampleRate: sampleRate,
		Samples:    samples,
	}
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.Samples)
}

// Duration returns the time spanned by the samples.
func (t *Trace) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(t.Samples)) / t.SampleRate * float64(time.Second))
}

// Validate checks the sample rate and that every sample is finite.
func (t *Trace) Validate() error {
	if t.SampleRate <= 0 || math.IsNaN(t.SampleRate) || math.IsInf(t.SampleRate, 0) {
		return fmt.Errorf("%w: %s: sample rate %g", ErrInvalidTrace, t.ID, t.SampleRate)
	}
	if len(t.Samples) == 0 {
		return fmt.Errorf("%w: %s: no samples", ErrInvalidTrace, t.ID)
	}
	for i, v := range t.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s: non-finite sample at %d", ErrInvalidTrace, t.ID, i)
		}
	}
	return nil
}

// SamplesFor converts a duration in seconds to a whole number of samples,
// rounding to the nearest sample.
func (t *Trace) SamplesFor(seconds float64) int {
	return int(math.Round(seconds * t.SampleRate))
}

// Event is a trigger interval with its times relative to the first sample.
type Event struct {
	On    int     `json:"on"`
	Off   int     `json:"off"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
}

// Duration returns the event length in seconds.
func (e Event) Duration() float64 {
	return e.End - e.Start
}

// EventsFromIntervals converts sample intervals to events using
// index / sampleRate.
func EventsFromIntervals(intervals []trigger.Interval, sampleRate float64) []Event {
	events := make([]Event, len(intervals))
	for i, iv := range intervals {
		events[i] = Event{
			On:    iv.On,
			Off:   iv.Off,
			Start: float64(iv.On) / sampleRate,
			End:   float64(iv.Off) / sampleRate,
		}
	}
	return events
}

// AbsoluteTime returns the wall clock time of offset seconds into t, or the
// zero time when the trace start is unknown.
func (t *Trace) AbsoluteTime(offset float64) time.Time {
	if t.StartTime.IsZero() {
		return time.Time{}
	}
	return t.StartTime.Add(time.Duration(offset * float64(time.Second)))
}
