package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "supplier-scoring",
		Short: "Rank and score print suppliers",
		Long: `supplier-scoring ranks the suppliers quoting a size/quantity and computes
each supplier's longitudinal performance score from job history.

Run "serve" for the HTTP API, or "recommend" and "score" to compute results
offline from a YAML snapshot of CRM data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a config file (default: config.yaml in ., ./config or /etc/supplier-scoring)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newRecommendCommand(opts))
	cmd.AddCommand(newScoreCommand(opts))
	cmd.AddCommand(newImportCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
