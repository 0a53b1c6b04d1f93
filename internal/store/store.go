// Package store holds the read adapters the engine pulls history from and
// the stores that persist the active weight configuration.
package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

const opTimeout = 5 * time.Second

// OfferSource lists the current offers for one size/quantity, restricted to
// active suppliers and ordered by supplier ID.
type OfferSource interface {
	CandidateOffers(ctx context.Context, sizeQuantityID int64) ([]model.SupplierPriceOffer, error)
}

// JobHistorySource returns every job ever placed with a supplier, unfiltered.
// An unknown supplier has an empty history.
type JobHistorySource interface {
	JobHistory(ctx context.Context, supplierID int64) ([]model.SupplierJobRecord, error)
}

// MarketStatsSource compares a supplier's average price with the average
// over all active offers on the size/quantities the supplier quotes.
type MarketStatsSource interface {
	MarketAndSupplierAvgPrice(ctx context.Context, supplierID int64) (model.MarketPriceStats, error)
}

type HistoryRepository interface {
	OfferSource
	JobHistorySource
	MarketStatsSource
	Close() error
}

// Seeder is implemented by the writable history stores so snapshots can be
// imported into them.
type Seeder interface {
	UpsertSupplier(ctx context.Context, s model.Supplier) error
	UpsertOffer(ctx context.Context, o model.SupplierPriceOffer) error
	PutJob(ctx context.Context, j model.SupplierJobRecord) error
}

type WeightStore interface {
	// GetWeights returns nil, nil when nothing has been saved yet.
	GetWeights(ctx context.Context) (*model.WeightConfig, error)
	SaveWeights(ctx context.Context, w model.WeightConfig) error
	Close() error
}

// marketStats averages both price sets using decimal arithmetic. Prices are
// summed exactly, so a set of identical prices averages to that price and a
// supplier quoting the market exactly gets a price delta of zero.
func marketStats(own, market []float64) (model.MarketPriceStats, error) {
	for _, set := range [][]float64{own, market} {
		for _, p := range set {
			if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
				return model.MarketPriceStats{}, fmt.Errorf("%w: unit_price %v", model.ErrInvalidRecord, p)
			}
		}
	}
	return model.MarketPriceStats{
		SupplierAvg:    decimalAvg(own),
		SupplierOffers: len(own),
		MarketAvg:      decimalAvg(market),
		MarketOffers:   len(market),
	}, nil
}

func decimalAvg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(values)))).Float64()
	return avg
}
