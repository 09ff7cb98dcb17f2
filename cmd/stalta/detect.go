package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/RyanBlaney/stalta/algorithms/trigger"
	"github.com/RyanBlaney/stalta/detector"
	"github.com/RyanBlaney/stalta/logging"
	"github.com/RyanBlaney/stalta/store"
	"github.com/RyanBlaney/stalta/trace"
	"github.com/mdobak/go-xerrors"
	"github.com/spf13/cobra"
)

type detectOptions struct {
	configPath string
	method     string
	sta        float64
	lta        float64
	on         float64
	off        float64
	rate       float64
	maxLen     float64
	deleteLong bool
	dbPath     string
	jsonOut    bool
}

func detectCmd() *cobra.Command {
	var opts detectOptions

	cmd := &cobra.Command{
		Use:   "detect [files...]",
		Short: "Detect trigger intervals in waveform files",
		Long: `Load each file as one trace, compute the characteristic function and
print the trigger intervals. Settings are read from the config file, then
STALTA_* environment variables (also from .env), then flags.

Text files hold one sample per line, .f64/.bin files raw little-endian
float64 samples; other extensions are decoded with ffmpeg.
`,
		Example: `stalta detect --method classic --sta 1 --lta 10 --on 3.5 --off 1 --rate 100 BW.RJOB..EHZ.txt`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file")
	f.StringVar(&opts.method, "method", "", "Characteristic function: recursive, classic, delayed, carl, zdetect")
	f.Float64Var(&opts.sta, "sta", 0, "Short-term window in seconds")
	f.Float64Var(&opts.lta, "lta", 0, "Long-term window in seconds")
	f.Float64Var(&opts.on, "on", 0, "Trigger-on threshold")
	f.Float64Var(&opts.off, "off", 0, "Trigger-off threshold")
	f.Float64Var(&opts.rate, "rate", 100, "Sample rate in Hz of the input files")
	f.Float64Var(&opts.maxLen, "max-len", 0, "Maximum event length in seconds, 0 for unlimited")
	f.BoolVar(&opts.deleteLong, "delete-long", false, "Drop events longer than --max-len instead of truncating them")
	f.StringVar(&opts.dbPath, "db", "", "SQLite database to store the results in")
	f.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")

	return cmd
}

// buildConfig layers the config file, the environment and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command, opts detectOptions) (detector.Config, error) {
	cfg := detector.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := detector.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		m, err := trigger.ParseMethod(opts.method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}
	if flags.Changed("sta") {
		cfg.STASeconds = opts.sta
	}
	if flags.Changed("lta") {
		cfg.LTASeconds = opts.lta
	}
	if flags.Changed("on") {
		cfg.ThresholdOn = opts.on
	}
	if flags.Changed("off") {
		cfg.ThresholdOff = opts.off
	}
	if flags.Changed("max-len") {
		cfg.MaxLenSeconds = opts.maxLen
	}
	if flags.Changed("delete-long") {
		cfg.MaxLenDelete = opts.deleteLong
	}

	return cfg, cfg.Validate()
}

func runDetect(cmd *cobra.Command, opts detectOptions, files []string) error {
	ctx := cmd.Context()
	logger := logging.WithFields(logging.Fields{"component": "cli"})

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	traces := make([]*trace.Trace, 0, len(files))
	for _, path := range files {
		samples, err := trace.Load(ctx, path)
		if err != nil {
			return xerrors.New(fmt.Errorf("load %s: %w", path, err))
		}
		traces = append(traces, trace.New(traceID(path), opts.rate, samples))
		logger.Debug("loaded trace", logging.Fields{"file": path, "samples": len(samples)})
	}

	d, err := detector.New(cfg, logging.GetGlobalLogger())
	if err != nil {
		return err
	}
	results, err := d.DetectAll(ctx, traces)
	if err != nil {
		return err
	}

	if opts.dbPath != "" {
		s, err := store.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer s.Close()

		for i, res := range results {
			runID, err := s.SaveResult(ctx, files[i], res)
			if err != nil {
				return err
			}
			logger.Debug("stored result", logging.Fields{"run": runID, "trace": res.TraceID})
		}
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return printResults(cmd.OutOrStdout(), results)
}

// traceID names a trace after its file without the extension.
func traceID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printResults(w io.Writer, results []*detector.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACE\tON\tOFF\tSTART(s)\tEND(s)")
	for _, res := range results {
		for _, e := range res.Events {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.3f\n", res.TraceID, e.On, e.Off, e.Start, e.End)
		}
	}
	return tw.Flush()
}
