package trigger

import (
	"fmt"

	"github.com/RyanBlaney/stalta/algorithms/common"
)

// Streamer evaluates the recursive or classic STA/LTA over a stream fed in
// chunks of any size. Concatenating the outputs of Process gives the same
// function as Compute over the concatenated input.
//
// A Streamer is not safe for concurrent use.
type Streamer struct {
	method     Method
	nsta, nlta int
	seen       int

	// recursive state
	csta, clta float64
	sta, lta   float64

	// classic state
	energy         *common.Ring
	staSum, ltaSum float64
}

// NewStreamer creates a streamer for Recursive or Classic.
func NewStreamer(method Method, p Params) (*Streamer, error) {
	if p.STA <= 0 {
		return nil, fmt.Errorf("%w: nsta=%d must be positive", ErrInvalidWindow, p.STA)
	}
	if p.LTA <= 0 {
		return nil, fmt.Errorf("%w: nlta=%d must be positive", ErrInvalidWindow, p.LTA)
	}

	s := &Streamer{method: method, nsta: p.STA, nlta: p.LTA}
	switch method {
	case Recursive:
		s.csta = 1.0 / float64(p.STA)
		s.clta = 1.0 / float64(p.LTA)
	case Classic:
		s.energy = common.NewRing(max(p.STA, p.LTA))
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotStreamable, method)
	}
	s.Reset()
	return s, nil
}

// Method returns the streamed method.
func (s *Streamer) Method() Method {
	return s.method
}

// Seen returns the number of samples processed since the last Reset.
func (s *Streamer) Seen() int {
	return s.seen
}

// Process consumes chunk and returns one characteristic function value per
// sample.
func (s *Streamer) Process(chunk []float64) []float64 {
	out := make([]float64, len(chunk))
	for i, v := range chunk {
		if s.method == Recursive {
			out[i] = s.recursive(v)
		} else {
			out[i] = s.classic(v)
		}
		s.seen++
	}
	return out
}

// Reset clears the state so the next sample is treated as the first.
func (s *Streamer) Reset() {
	s.seen = 0
	s.sta = 0
	s.lta = ltaSeed
	s.staSum = 0
	s.ltaSum = 0
	if s.energy != nil {
		s.energy.Reset()
	}
}

func (s *Streamer) recursive(v float64) float64 {
	// the first sample never enters the recurrence
	if s.seen == 0 {
		return 0
	}
	sq := v * v
	s.sta = s.csta*sq + (1.0-s.csta)*s.sta
	s.lta = s.clta*sq + (1.0-s.clta)*s.lta
	if s.seen < s.nlta || s.lta == 0 {
		return 0
	}
	return s.sta / s.lta
}

func (s *Streamer) classic(v float64) float64 {
	cf := 0.0
	// both windows must be full, as in the padded batch form
	if s.seen >= max(s.nsta, s.nlta) && s.ltaSum != 0 {
		cf = (s.staSum / float64(s.nsta)) / (s.ltaSum / float64(s.nlta))
	}

	// windows cover the samples before the current one
	sq := v * v
	s.staSum += sq - s.energy.Back(s.nsta)
	s.ltaSum += sq - s.energy.Back(s.nlta)
	s.energy.Push(sq)

	return cf
}
