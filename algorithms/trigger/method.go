package trigger

import (
	"fmt"
	"strings"
)

// Method selects one of the characteristic function algorithms.
type Method int

const (
	// Recursive STA/LTA (exponentially smoothed averages)
	Recursive Method = iota
	// Classic STA/LTA over trailing rectangular windows
	Classic
	// Delayed STA/LTA built from lagged squared samples
	Delayed
	// CarlStaTrig moving-average cascade
	CarlStaTrig
	// ZDetector energy z-score over the whole trace (non-causal)
	ZDetector
)

var methodNames = [...]string{
	Recursive:   "recursive",
	Classic:     "classic",
	Delayed:     "delayed",
	CarlStaTrig: "carl",
	ZDetector:   "zdetect",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// Causal reports whether the characteristic function at sample i depends
// only on samples up to i. The z-detector normalises over the whole trace
// and cannot be evaluated on a stream.
func (m Method) Causal() bool {
	return m != ZDetector
}

// MarshalText implements encoding.TextMarshaler so configs store the name.
func (m Method) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(methodNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(methodNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMethod maps a method name to its Method. A few common aliases are
// accepted ("recstalta", "classic_sta_lta", "carlstatrig", "z").
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "recursive", "recstalta", "recursive_sta_lta":
		return Recursive, nil
	case "classic", "classicstalta", "classic_sta_lta":
		return Classic, nil
	case "delayed", "delayedstalta", "delayed_sta_lta":
		return Delayed, nil
	case "carl", "carlstatrig", "carl_sta_trig":
		return CarlStaTrig, nil
	case "zdetect", "z", "z_detect":
		return ZDetector, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Methods returns every supported method in declaration order.
func Methods() []Method {
	return []Method{Recursive, Classic, Delayed, CarlStaTrig, ZDetector}
}

// Params holds the window lengths (in samples) and the Carl-Sta-Trig
// sensitivity parameters. Ratio and Quiet are ignored by the other methods.
type Params struct {
	STA   int     `json:"sta" yaml:"sta"`
	LTA   int     `json:"lta" yaml:"lta"`
	Ratio float64 `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Quiet float64 `json:"quiet,omitempty" yaml:"quiet,omitempty"`
}

// Compute evaluates the characteristic function selected by method.
// Both windows are validated for every method, including the z-detector
// which only uses STA. The result always has len(samples) entries and is
// never aliased with samples.
func Compute(samples []float64, method Method, p Params) ([]float64, error) {
	if err := checkWindows(p.STA, p.LTA, len(samples)); err != nil {
		return nil, err
	}

	switch method {
	case Recursive:
		return recursiveSTALTA(samples, p.STA, p.LTA), nil
	case Classic:
		return classicSTALTA(samples, p.STA, p.LTA), nil
	case Delayed:
		return delayedSTALTA(samples, p.STA, p.LTA), nil
	case CarlStaTrig:
		return carlSTATrig(samples, p.STA, p.LTA, p.Ratio, p.Quiet), nil
	case ZDetector:
		return zDetect(samples, p.STA)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}
}
