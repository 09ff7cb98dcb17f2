// Package detector runs the trigger pipeline over whole traces: optional
// conditioning, a characteristic function and the dual-threshold onset
// detector, producing events in seconds.
package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/stalta/algorithms/trigger"
	"github.com/RyanBlaney/stalta/logging"
	"github.com/RyanBlaney/stalta/trace"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one trace.
type Result struct {
	TraceID      string             `json:"trace_id"`
	SampleRate   float64            `json:"sample_rate"`
	StartTime    time.Time          `json:"start_time,omitzero"`
	Method       trigger.Method     `json:"method"`
	Params       trigger.Params     `json:"params"`
	ThresholdOn  float64            `json:"threshold_on"`
	ThresholdOff float64            `json:"threshold_off"`
	Intervals    []trigger.Interval `json:"-"`
	Events       []trace.Event      `json:"events"`
	CF           []float64          `json:"-"`
}

// Detector applies one Config to any number of traces. It is safe for
// concurrent use.
type Detector struct {
	cfg    Config
	logger logging.Logger
}

// New validates cfg and creates a detector. A nil logger uses the global
// logger.
func New(cfg Config, logger logging.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Detector{
		cfg: cfg,
		logger: logger.WithFields(logging.Fields{
			"component": "detector",
			"method":    cfg.Method.String(),
		}),
	}, nil
}

// Config returns the configuration the detector was built with.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect runs the pipeline on one trace. The trace samples are not
// modified.
func (d *Detector) Detect(tr *trace.Trace) (*Result, error) {
	return d.detect(context.Background(), tr)
}

func (d *Detector) detect(ctx context.Context, tr *trace.Trace) (*Result, error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: nil trace", trace.ErrInvalidTrace)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	logger := d.logger.WithContext(ctx).WithFields(logging.Fields{"trace": tr.ID})

	params := d.cfg.Params(tr.SampleRate)
	logger.Debug("computing characteristic function", logging.Fields{
		"sta_samples": params.STA,
		"lta_samples": params.LTA,
		"samples":     tr.Len(),
	})

	samples := tr.Samples
	if d.cfg.Conditioning.Enabled() {
		conditioned, err := d.cfg.Conditioning.Apply(samples, tr.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("%s: conditioning: %w", tr.ID, err)
		}
		samples = conditioned
	}

	cf, err := trigger.Compute(samples, d.cfg.Method, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tr.ID, err)
	}

	opts := d.cfg.OnsetOptions(tr.SampleRate)
	intervals := trigger.Onset(cf, d.cfg.ThresholdOn, d.cfg.ThresholdOff, &opts)

	res := &Result{
		TraceID:      tr.ID,
		SampleRate:   tr.SampleRate,
		StartTime:    tr.StartTime,
		Method:       d.cfg.Method,
		Params:       params,
		ThresholdOn:  d.cfg.ThresholdOn,
		ThresholdOff: d.cfg.ThresholdOff,
		Intervals:    intervals,
		Events:       trace.EventsFromIntervals(intervals, tr.SampleRate),
		CF:           cf,
	}

	logger.Info("detection complete", logging.Fields{"events": len(res.Events)})
	return res, nil
}

// DetectAll runs Detect over traces with at most Config.Workers running at
// once. Results are in input order. The first error cancels the remaining
// traces and is returned.
func (d *Detector) DetectAll(ctx context.Context, traces []*trace.Trace) ([]*Result, error) {
	results := make([]*Result, len(traces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.workers())

	for i, tr := range traces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := d.detect(ctx, tr)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
