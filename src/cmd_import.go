package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/config"
	"github.com/togengine-byte/CRM-sub003/internal/store"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a snapshot into the configured history store",
		Long: `Load a snapshot into the configured history store.

Only writable stores (sqlite, mongo) can be imported into. Suppliers and
offers are upserted and jobs are replaced by ID, so re-importing the same
snapshot is safe. Snapshot weights are saved to the configured weight store.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshotPath == "" {
				return usageErrorf("--snapshot is required")
			}

			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cfg.Store.History != config.HistorySQLite && cfg.Store.History != config.HistoryMongo {
				return usageErrorf("store.history %q is read-only, import needs sqlite or mongo", cfg.Store.History)
			}
			return runImport(cmd.Context(), cfg, snapshotPath, logger)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot of suppliers, offers and jobs")
	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, snapshotPath string, logger *zap.Logger) error {
	snap, err := readSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	b, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close(context.Background())

	seeder, ok := b.history.(store.Seeder)
	if !ok {
		return fmt.Errorf("history store %q does not accept imports", cfg.Store.History)
	}
	if err := snap.ApplyTo(ctx, seeder); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if snap.Weights != nil {
		if err := b.weights.SaveWeights(ctx, *snap.Weights); err != nil {
			return fmt.Errorf("failed to save weights: %w", err)
		}
	}

	logger.Info("snapshot imported",
		zap.String("snapshot", snapshotPath),
		zap.Int("suppliers", len(snap.Suppliers)),
		zap.Int("offers", len(snap.Offers)),
		zap.Int("jobs", len(snap.Jobs)),
	)
	return nil
}
