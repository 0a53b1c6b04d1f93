package store

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// Snapshot is a point-in-time export of the CRM data the engine reads.
type Snapshot struct {
	Suppliers []model.Supplier           `yaml:"suppliers"`
	Offers    []model.SupplierPriceOffer `yaml:"offers"`
	Jobs      []model.SupplierJobRecord  `yaml:"jobs"`
	Weights   *model.WeightConfig        `yaml:"weights,omitempty"`
}

// LoadSnapshot decodes and validates a YAML snapshot. Unknown keys are
// rejected. An empty document yields an empty snapshot.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Snapshot) validate() error {
	for i, o := range s.Offers {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("offers[%d]: %w", i, err)
		}
	}
	for i, j := range s.Jobs {
		if err := j.Validate(); err != nil {
			return fmt.Errorf("jobs[%d]: %w", i, err)
		}
	}
	for i, sup := range s.Suppliers {
		if sup.RatedDeals < 0 {
			return fmt.Errorf("suppliers[%d]: %w: rated_deals %d is negative", i, model.ErrInvalidRecord, sup.RatedDeals)
		}
	}
	if s.Weights != nil {
		if err := s.Weights.Validate(); err != nil {
			return fmt.Errorf("snapshot weights: %w", err)
		}
	}
	return nil
}

// ApplyTo writes every supplier, offer and job into dst.
func (s *Snapshot) ApplyTo(ctx context.Context, dst Seeder) error {
	for _, sup := range s.Suppliers {
		if err := dst.UpsertSupplier(ctx, sup); err != nil {
			return fmt.Errorf("supplier %d: %w", sup.ID, err)
		}
	}
	for _, o := range s.Offers {
		if err := dst.UpsertOffer(ctx, o); err != nil {
			return fmt.Errorf("offer %d/%d: %w", o.SupplierID, o.SizeQuantityID, err)
		}
	}
	for _, j := range s.Jobs {
		if err := dst.PutJob(ctx, j); err != nil {
			return fmt.Errorf("job %d: %w", j.ID, err)
		}
	}
	return nil
}

// MemoryStore returns a MemoryStore populated from the snapshot.
func (s *Snapshot) MemoryStore(ctx context.Context) (*MemoryStore, error) {
	ms := NewMemoryStore()
	if err := s.ApplyTo(ctx, ms); err != nil {
		return nil, err
	}
	return ms, nil
}
