package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSupplierJobRecordDerived(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ready := created.Add(48 * time.Hour)
	before := created.Add(-24 * time.Hour)
	two, one := 2, 1

	tests := []struct {
		name          string
		job           SupplierJobRecord
		wantCompleted bool
		wantDays      float64
		wantOnTime    bool
		wantOpen      bool
	}{
		{
			name:     "pending without ready",
			job:      SupplierJobRecord{CreatedAt: created, Status: JobPending},
			wantOpen: true,
		},
		{
			name:          "ready exactly on promise",
			job:           SupplierJobRecord{CreatedAt: created, ReadyAt: &ready, PromisedDeliveryDays: &two, Status: JobReady},
			wantCompleted: true,
			wantDays:      2,
			wantOnTime:    true,
		},
		{
			name:          "ready late",
			job:           SupplierJobRecord{CreatedAt: created, ReadyAt: &ready, PromisedDeliveryDays: &one, Status: JobDelivered},
			wantCompleted: true,
			wantDays:      2,
		},
		{
			name:          "ready without promise is never on time",
			job:           SupplierJobRecord{CreatedAt: created, ReadyAt: &ready, Status: JobDelivered},
			wantCompleted: true,
			wantDays:      2,
		},
		{
			name:          "ready before creation clamps to zero",
			job:           SupplierJobRecord{CreatedAt: created, ReadyAt: &before, PromisedDeliveryDays: &one, Status: JobInProgress},
			wantCompleted: true,
			wantDays:      0,
			wantOnTime:    true,
			wantOpen:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCompleted, tt.job.Completed())
			days, ok := tt.job.ActualDays()
			assert.Equal(t, tt.wantCompleted, ok)
			assert.InDelta(t, tt.wantDays, days, 1e-9)
			assert.Equal(t, tt.wantOnTime, tt.job.OnTime())
			assert.Equal(t, tt.wantOpen, tt.job.Open())
		})
	}
}

func TestCountOpen(t *testing.T) {
	jobs := []SupplierJobRecord{
		{Status: JobPending},
		{Status: JobInProgress},
		{Status: JobReady},
		{Status: JobDelivered},
		{Status: JobCancelled},
	}
	assert.Equal(t, 2, CountOpen(jobs))
	assert.Equal(t, 0, CountOpen(nil))
}

func TestOfferDefaults(t *testing.T) {
	o := SupplierPriceOffer{SupplierID: 1, UnitPrice: 10}
	assert.Equal(t, DefaultDeliveryDays, o.Delivery())
	assert.Equal(t, DefaultQualityRating, o.Quality())
	assert.Equal(t, DefaultAvgRating, o.AvgRating())

	days, q := 5, 4.5
	o.DeliveryDays = &days
	o.QualityRating = &q
	o.HistoricalAvgRating = AverageRating(9, 2)
	assert.Equal(t, 5, o.Delivery())
	assert.Equal(t, 4.5, o.Quality())
	assert.Equal(t, 4.5, o.AvgRating())

	assert.Nil(t, AverageRating(12, 0))
}
