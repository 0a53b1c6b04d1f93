package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/config"
	"github.com/togengine-byte/CRM-sub003/internal/logging"
)

func loadConfig(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, &UsageError{Err: err}
	}
	return cfg, logger.With(zap.String("service", cfg.Service)), nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s takes no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}
