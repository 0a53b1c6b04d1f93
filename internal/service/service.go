// Package service wires the repositories to the ranking and scoring engines.
// Each operation fetches what it needs, computes a result, records metrics and
// publishes an event; it never writes history.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/togengine-byte/CRM-sub003/internal/events"
	"github.com/togengine-byte/CRM-sub003/internal/metrics"
	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/performance"
	"github.com/togengine-byte/CRM-sub003/internal/recommend"
	"github.com/togengine-byte/CRM-sub003/internal/store"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidSupplierID = errors.New("invalid supplier id")
	ErrTooManySuppliers  = errors.New("too many suppliers requested")
)

const (
	defaultConcurrency = 8
	defaultMaxBatch    = 500
)

// Options holds the optional collaborators. Zero values get working defaults.
type Options struct {
	Defaults    model.WeightConfig
	Publisher   *events.Publisher
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Concurrency int
	MaxBatch    int
}

type Service struct {
	history  store.HistoryRepository
	weights  store.WeightStore
	defaults model.WeightConfig

	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	concurrency int
	maxBatch    int
	now         func() time.Time
}

func New(history store.HistoryRepository, weights store.WeightStore, opts Options) *Service {
	s := &Service{
		history:     history,
		weights:     weights,
		defaults:    opts.Defaults,
		publisher:   opts.Publisher,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		maxBatch:    opts.MaxBatch,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if s.defaults == (model.WeightConfig{}) {
		s.defaults = model.DefaultWeights()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.publisher == nil {
		s.publisher = events.NewPublisher("supplier-scoring", nil, s.logger)
	}
	if s.concurrency < 1 {
		s.concurrency = defaultConcurrency
	}
	if s.maxBatch < 1 {
		s.maxBatch = defaultMaxBatch
	}
	return s
}

// GetWeights returns the saved weight configuration, or the configured
// default when none has been saved.
func (s *Service) GetWeights(ctx context.Context) (model.WeightConfig, error) {
	w, err := s.weights.GetWeights(ctx)
	if err != nil {
		return model.WeightConfig{}, fmt.Errorf("failed to load weights: %w", err)
	}
	if w == nil {
		return s.defaults, nil
	}
	return *w, nil
}

// UpdateWeights validates and saves w, then publishes the change. Invalid
// weights are rejected with an error wrapping model.ErrInvalidWeights and
// nothing is saved.
func (s *Service) UpdateWeights(ctx context.Context, w model.WeightConfig) (model.WeightConfig, error) {
	if err := w.Validate(); err != nil {
		s.metrics.WeightUpdate("rejected")
		return model.WeightConfig{}, err
	}

	previous, err := s.GetWeights(ctx)
	if err != nil {
		s.metrics.WeightUpdate("error")
		return model.WeightConfig{}, err
	}
	if err := s.weights.SaveWeights(ctx, w); err != nil {
		s.metrics.WeightUpdate("error")
		return model.WeightConfig{}, fmt.Errorf("failed to save weights: %w", err)
	}
	s.metrics.WeightUpdate("accepted")

	s.logger.Info("weights updated",
		zap.Int("price", w.Price),
		zap.Int("rating", w.Rating),
		zap.Int("delivery_time", w.DeliveryTime),
		zap.Int("reliability", w.Reliability),
	)
	s.publisher.Publish(ctx, events.EventWeightsUpdated, "weights", events.WeightsUpdatedData{
		Previous:  previous,
		Current:   w,
		UpdatedAt: s.now(),
	})
	return w, nil
}

// Recommend ranks the active suppliers quoting sizeQuantityID using the
// active weights. An empty candidate set is not an error.
func (s *Service) Recommend(ctx context.Context, sizeQuantityID int64, quantity int) (model.RecommendationSet, error) {
	if quantity < 1 {
		return model.RecommendationSet{}, fmt.Errorf("%w, got %d", ErrInvalidQuantity, quantity)
	}
	start := time.Now()

	weights, err := s.GetWeights(ctx)
	if err != nil {
		return model.RecommendationSet{}, err
	}
	offers, err := s.history.CandidateOffers(ctx, sizeQuantityID)
	if err != nil {
		return model.RecommendationSet{}, fmt.Errorf("failed to load offers for size quantity %d: %w", sizeQuantityID, err)
	}

	set := model.RecommendationSet{
		ID:              uuid.NewString(),
		SizeQuantityID:  sizeQuantityID,
		Quantity:        quantity,
		Weights:         weights,
		Recommendations: recommend.Recommend(offers, weights, quantity),
		GeneratedAt:     s.now(),
	}
	s.metrics.ObserveRecommend(time.Since(start), len(offers))

	data := events.RecommendationsGeneratedData{
		RecommendationSetID: set.ID,
		SizeQuantityID:      sizeQuantityID,
		Quantity:            quantity,
		Candidates:          len(set.Recommendations),
	}
	if len(set.Recommendations) > 0 {
		data.TopSupplierID = set.Recommendations[0].SupplierID
		data.TopScore = set.Recommendations[0].TotalScore
	}
	s.publisher.Publish(ctx, events.EventRecommendationsGenerated, set.ID, data)

	s.logger.Debug("recommendations generated",
		zap.String("recommendation_set_id", set.ID),
		zap.Int64("size_quantity_id", sizeQuantityID),
		zap.Int("candidates", len(offers)),
	)
	return set, nil
}

// ScoreSupplier computes one supplier's performance score and publishes it.
func (s *Service) ScoreSupplier(ctx context.Context, supplierID int64) (model.ScoreReport, error) {
	if err := checkSupplierIDs([]int64{supplierID}); err != nil {
		return model.ScoreReport{}, err
	}
	report, err := s.score(ctx, supplierID)
	if err != nil {
		return model.ScoreReport{}, err
	}
	s.publisher.Publish(ctx, events.EventSupplierScored, strconv.FormatInt(supplierID, 10), events.SupplierScoredData{
		SupplierID: supplierID,
		TotalScore: report.TotalScore,
		TotalJobs:  report.TotalJobs,
		OpenJobs:   report.OpenJobs,
	})
	return report, nil
}

// Leaderboard scores every supplier in ids concurrently and returns the
// reports ordered by total score, highest first. Equal totals keep request
// order. IDs must be positive and distinct. The first failure cancels the
// rest.
func (s *Service) Leaderboard(ctx context.Context, ids []int64) ([]model.ScoreReport, error) {
	if len(ids) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManySuppliers, len(ids), s.maxBatch)
	}
	if err := checkSupplierIDs(ids); err != nil {
		return nil, err
	}

	reports := make([]model.ScoreReport, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := s.score(gctx, id)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(a, b int) bool {
		return reports[a].TotalScore > reports[b].TotalScore
	})
	return reports, nil
}

func checkSupplierIDs(ids []int64) error {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id < 1 {
			return fmt.Errorf("%w: %d is not a positive integer", ErrInvalidSupplierID, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %d is listed more than once", ErrInvalidSupplierID, id)
		}
		seen[id] = true
	}
	return nil
}

func (s *Service) score(ctx context.Context, supplierID int64) (model.ScoreReport, error) {
	start := time.Now()

	jobs, err := s.history.JobHistory(ctx, supplierID)
	if err != nil {
		return model.ScoreReport{}, fmt.Errorf("failed to load job history for supplier %d: %w", supplierID, err)
	}
	market, err := s.history.MarketAndSupplierAvgPrice(ctx, supplierID)
	if err != nil {
		return model.ScoreReport{}, fmt.Errorf("failed to load market prices for supplier %d: %w", supplierID, err)
	}

	report := performance.Score(supplierID, jobs, market, model.CountOpen(jobs))
	s.metrics.ObserveScore(time.Since(start), report.TotalScore)
	return report, nil
}
