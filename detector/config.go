package detector

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"

	"github.com/RyanBlaney/stalta/algorithms/filters"
	"github.com/RyanBlaney/stalta/algorithms/trigger"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("detector: invalid config")

// Config drives one detection run. Window and length settings are in
// seconds and converted to samples per trace.
type Config struct {
	Method        trigger.Method       `json:"method" yaml:"method"`
	STASeconds    float64              `json:"sta" yaml:"sta"`
	LTASeconds    float64              `json:"lta" yaml:"lta"`
	Ratio         float64              `json:"ratio" yaml:"ratio"`
	Quiet         float64              `json:"quiet" yaml:"quiet"`
	ThresholdOn   float64              `json:"threshold_on" yaml:"threshold_on"`
	ThresholdOff  float64              `json:"threshold_off" yaml:"threshold_off"`
	MaxLenSeconds float64              `json:"max_len" yaml:"max_len"` // 0 means unlimited
	MaxLenDelete  bool                 `json:"max_len_delete" yaml:"max_len_delete"`
	Conditioning  filters.Conditioning `json:"conditioning" yaml:"conditioning"`
	Workers       int                  `json:"workers" yaml:"workers"` // 0 means one per CPU
}

// DefaultConfig returns a classic STA/LTA setup with 1 s and 10 s windows.
func DefaultConfig() Config {
	return Config{
		Method:       trigger.Classic,
		STASeconds:   1,
		LTASeconds:   10,
		Ratio:        0.8,
		Quiet:        0.8,
		ThresholdOn:  3.5,
		ThresholdOff: 1.0,
		Conditioning: filters.DefaultConditioning(),
	}
}

// Validate checks the sample-rate independent settings.
func (c Config) Validate() error {
	if c.Method < trigger.Recursive || c.Method > trigger.ZDetector {
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, trigger.ErrUnknownMethod, c.Method)
	}
	if !(c.STASeconds > 0) || math.IsInf(c.STASeconds, 0) {
		return fmt.Errorf("%w: sta must be positive, got %g", ErrInvalidConfig, c.STASeconds)
	}
	if !(c.LTASeconds > 0) || math.IsInf(c.LTASeconds, 0) {
		return fmt.Errorf("%w: lta must be positive, got %g", ErrInvalidConfig, c.LTASeconds)
	}
	if math.IsNaN(c.ThresholdOn) || math.IsNaN(c.ThresholdOff) {
		return fmt.Errorf("%w: thresholds must be numbers", ErrInvalidConfig)
	}
	if c.MaxLenSeconds < 0 || math.IsNaN(c.MaxLenSeconds) {
		return fmt.Errorf("%w: max_len must be >= 0, got %g", ErrInvalidConfig, c.MaxLenSeconds)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if err := c.Conditioning.ValidateSteps(); err != nil {
		return fmt.Errorf("%w: conditioning: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Params converts the windows to samples at sampleRate.
func (c Config) Params(sampleRate float64) trigger.Params {
	return trigger.Params{
		STA:   int(math.Round(c.STASeconds * sampleRate)),
		LTA:   int(math.Round(c.LTASeconds * sampleRate)),
		Ratio: c.Ratio,
		Quiet: c.Quiet,
	}
}

// OnsetOptions converts MaxLenSeconds to samples at sampleRate.
func (c Config) OnsetOptions(sampleRate float64) trigger.OnsetOptions {
	opts := trigger.DefaultOnsetOptions()
	if c.MaxLenSeconds > 0 {
		opts.MaxLen = int(math.Round(c.MaxLenSeconds * sampleRate))
	}
	opts.MaxLenDelete = c.MaxLenDelete
	return opts
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoadConfig reads a YAML config on top of DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Environment variables read by ApplyEnv.
const (
	EnvMethod       = "STALTA_METHOD"
	EnvSTA          = "STALTA_STA"
	EnvLTA          = "STALTA_LTA"
	EnvRatio        = "STALTA_RATIO"
	EnvQuiet        = "STALTA_QUIET"
	EnvThresholdOn  = "STALTA_THRESHOLD_ON"
	EnvThresholdOff = "STALTA_THRESHOLD_OFF"
	EnvMaxLen       = "STALTA_MAX_LEN"
	EnvMaxLenDelete = "STALTA_MAX_LEN_DELETE"
	EnvWorkers      = "STALTA_WORKERS"
)

// ApplyEnv overrides fields from STALTA_* environment variables. Unset
// variables leave the field unchanged.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMethod); ok {
		m, err := trigger.ParseMethod(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMethod, err)
		}
		c.Method = m
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvSTA, &c.STASeconds},
		{EnvLTA, &c.LTASeconds},
		{EnvRatio, &c.Ratio},
		{EnvQuiet, &c.Quiet},
		{EnvThresholdOn, &c.ThresholdOn},
		{EnvThresholdOff, &c.ThresholdOff},
		{EnvMaxLen, &c.MaxLenSeconds},
	}
	for _, f := range floats {
		v, ok := lookup(f.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = parsed
	}

	if v, ok := lookup(EnvMaxLenDelete); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxLenDelete, err)
		}
		c.MaxLenDelete = b
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}

	return nil
}
