package store

import (
	"context"
	"sort"
	"sync"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

type offerKey struct {
	supplierID     int64
	sizeQuantityID int64
}

// MemoryStore is an in-process HistoryRepository used for development, tests
// and offline snapshot scoring.
type MemoryStore struct {
	mu        sync.RWMutex
	suppliers map[int64]model.Supplier
	offers    map[offerKey]model.SupplierPriceOffer
	jobs      map[int64][]model.SupplierJobRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		suppliers: map[int64]model.Supplier{},
		offers:    map[offerKey]model.SupplierPriceOffer{},
		jobs:      map[int64][]model.SupplierJobRecord{},
	}
}

func (s *MemoryStore) UpsertSupplier(ctx context.Context, sup model.Supplier) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[sup.ID] = sup
	return nil
}

// UpsertOffer stores one supplier's price for one size/quantity. Any
// HistoricalAvgRating on o is ignored; it is derived from the supplier.
func (s *MemoryStore) UpsertOffer(ctx context.Context, o model.SupplierPriceOffer) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	o.HistoricalAvgRating = nil
	s.offers[offerKey{o.SupplierID, o.SizeQuantityID}] = o
	return nil
}

// PutJob inserts or replaces the job with the same ID.
func (s *MemoryStore) PutJob(ctx context.Context, j model.SupplierJobRecord) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := s.jobs[j.SupplierID]
	for i := range jobs {
		if jobs[i].ID == j.ID {
			jobs[i] = j
			return nil
		}
	}
	s.jobs[j.SupplierID] = append(jobs, j)
	return nil
}

func (s *MemoryStore) CandidateOffers(ctx context.Context, sizeQuantityID int64) ([]model.SupplierPriceOffer, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.SupplierPriceOffer{}
	for k, o := range s.offers {
		if k.sizeQuantityID != sizeQuantityID {
			continue
		}
		sup, ok := s.suppliers[k.supplierID]
		if !ok || !sup.Active {
			continue
		}
		o.HistoricalAvgRating = sup.AvgRating()
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	if err := model.ValidateOffers(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) JobHistory(ctx context.Context, supplierID int64) ([]model.SupplierJobRecord, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]model.SupplierJobRecord{}, s.jobs[supplierID]...)
	if err := model.ValidateJobs(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MemoryStore) MarketAndSupplierAvgPrice(ctx context.Context, supplierID int64) (model.MarketPriceStats, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var own []float64
	quoted := map[int64]bool{}
	for k, o := range s.offers {
		if k.supplierID == supplierID {
			own = append(own, o.UnitPrice)
			quoted[k.sizeQuantityID] = true
		}
	}

	var market []float64
	for k, o := range s.offers {
		if !quoted[k.sizeQuantityID] {
			continue
		}
		if sup, ok := s.suppliers[k.supplierID]; ok && sup.Active {
			market = append(market, o.UnitPrice)
		}
	}
	return marketStats(own, market)
}

func (s *MemoryStore) Close() error { return nil }

// MemoryWeightStore keeps the active weights in process.
type MemoryWeightStore struct {
	mu      sync.RWMutex
	weights *model.WeightConfig
}

func NewMemoryWeightStore() *MemoryWeightStore {
	return &MemoryWeightStore{}
}

func (s *MemoryWeightStore) GetWeights(ctx context.Context) (*model.WeightConfig, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.weights == nil {
		return nil, nil
	}
	out := *s.weights
	return &out, nil
}

func (s *MemoryWeightStore) SaveWeights(ctx context.Context, w model.WeightConfig) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = &w
	return nil
}

func (s *MemoryWeightStore) Close() error { return nil }
