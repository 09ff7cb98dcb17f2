package main

import (
	"fmt"

	"github.com/RyanBlaney/stalta/algorithms/trigger"
	"github.com/RyanBlaney/stalta/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "stalta",
		Short: "STA/LTA event triggering for seismic traces",
		Long: `Compute STA/LTA characteristic functions over waveform files and
report trigger intervals found with a dual-threshold detector.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			// stdout is reserved for results
			logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr(), false)
			logger.SetLevel(level)
			logging.SetGlobalLogger(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	cmd.AddCommand(detectCmd(), methodsCmd())
	return cmd
}

func methodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the characteristic function methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range trigger.Methods() {
				causal := "causal"
				if !m.Causal() {
					causal = "whole-trace"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", m, causal)
			}
			return nil
		},
	}
}
