package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/recommend"
	"github.com/togengine-byte/CRM-sub003/internal/service"
	"github.com/togengine-byte/CRM-sub003/internal/store"
)

func newRecommendCommand(opts *rootOptions) *cobra.Command {
	var (
		snapshotPath   string
		sizeQuantityID int64
		quantity       int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the suppliers quoting a size/quantity from a snapshot",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshotPath == "" {
				return usageErrorf("--snapshot is required")
			}
			if sizeQuantityID < 1 {
				return usageErrorf("--size-quantity must be a positive ID")
			}
			if quantity < 1 {
				return usageErrorf("--quantity must be at least 1, got %d", quantity)
			}

			svc, logger, err := offlineService(cmd.Context(), opts, snapshotPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			set, err := svc.Recommend(cmd.Context(), sizeQuantityID, quantity)
			if err != nil {
				return err
			}
			set.Recommendations = recommend.Rounded(set.Recommendations)
			return writeOutput(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot of suppliers, offers and jobs")
	cmd.Flags().Int64Var(&sizeQuantityID, "size-quantity", 0, "Size/quantity ID to rank suppliers for")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Number of units, used for total cost")
	return cmd
}

func newScoreCommand(opts *rootOptions) *cobra.Command {
	var (
		snapshotPath string
		supplierIDs  []int64
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute supplier performance scores from a snapshot",
		Long: `Compute supplier performance scores from a snapshot.

With one --supplier the score report is printed as a JSON object. With several
the reports are printed as a JSON array ordered by total score, highest first.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if snapshotPath == "" {
				return usageErrorf("--snapshot is required")
			}
			if len(supplierIDs) == 0 {
				return usageErrorf("at least one --supplier is required")
			}

			svc, logger, err := offlineService(cmd.Context(), opts, snapshotPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if len(supplierIDs) == 1 {
				report, err := svc.ScoreSupplier(cmd.Context(), supplierIDs[0])
				if err != nil {
					return supplierError(err)
				}
				return writeOutput(cmd.OutOrStdout(), report.Rounded())
			}

			reports, err := svc.Leaderboard(cmd.Context(), supplierIDs)
			if err != nil {
				return supplierError(err)
			}
			out := make([]model.ScoreReport, len(reports))
			for i, r := range reports {
				out[i] = r.Rounded()
			}
			return writeOutput(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot of suppliers, offers and jobs")
	cmd.Flags().Int64SliceVar(&supplierIDs, "supplier", nil, "Supplier ID to score (repeatable)")
	return cmd
}

// supplierError reports bad --supplier values as usage errors.
func supplierError(err error) error {
	if errors.Is(err, service.ErrInvalidSupplierID) || errors.Is(err, service.ErrTooManySuppliers) {
		return &UsageError{Err: fmt.Errorf("--supplier: %w", err)}
	}
	return err
}

// offlineService builds a service over an in-memory copy of the snapshot.
// Snapshot weights, when present, replace the configured defaults.
func offlineService(ctx context.Context, opts *rootOptions, snapshotPath string) (*service.Service, *zap.Logger, error) {
	cfg, logger, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	snap, err := readSnapshot(snapshotPath)
	if err != nil {
		return nil, nil, err
	}
	history, err := snap.MemoryStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	weights := store.NewMemoryWeightStore()
	if snap.Weights != nil {
		if err := weights.SaveWeights(ctx, *snap.Weights); err != nil {
			return nil, nil, err
		}
	}

	svc := service.New(history, weights, service.Options{
		Defaults:    cfg.Weights,
		Logger:      logger,
		Concurrency: cfg.Scoring.LeaderboardConcurrency,
		MaxBatch:    cfg.Scoring.MaxLeaderboardSize,
	})
	return svc, logger, nil
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
