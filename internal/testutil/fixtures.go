package testutil

import (
	"time"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// Epoch is the fixed creation time used by job fixtures.
var Epoch = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

// SupplierFixture creates an active supplier with no ratings.
func SupplierFixture(id int64) model.Supplier {
	return model.Supplier{ID: id, Name: "Supplier", Active: true}
}

// OfferFixture represents a test price offer
type OfferFixture struct {
	model.SupplierPriceOffer
}

// NewOfferFixture creates an offer with every optional field unset.
func NewOfferFixture(supplierID, sizeQuantityID int64, unitPrice float64) OfferFixture {
	return OfferFixture{model.SupplierPriceOffer{
		SupplierID:     supplierID,
		SizeQuantityID: sizeQuantityID,
		UnitPrice:      unitPrice,
	}}
}

// WithDeliveryDays sets the quoted delivery days
func (o OfferFixture) WithDeliveryDays(days int) OfferFixture {
	o.DeliveryDays = &days
	return o
}

// WithQuality sets the quality rating
func (o OfferFixture) WithQuality(q float64) OfferFixture {
	o.QualityRating = &q
	return o
}

func (o OfferFixture) Offer() model.SupplierPriceOffer {
	return o.SupplierPriceOffer
}

// JobFixture represents a test job record
type JobFixture struct {
	model.SupplierJobRecord
}

// NewJobFixture creates an in-progress job created at Epoch.
func NewJobFixture(id, supplierID int64) JobFixture {
	return JobFixture{model.SupplierJobRecord{
		ID:         id,
		SupplierID: supplierID,
		CreatedAt:  Epoch,
		Status:     model.JobInProgress,
	}}
}

// WithPromise sets the promised delivery days
func (j JobFixture) WithPromise(days int) JobFixture {
	j.PromisedDeliveryDays = &days
	return j
}

// ReadyAfter marks the job ready the given number of whole hours after
// creation and moves it to delivered.
func (j JobFixture) ReadyAfter(hours int) JobFixture {
	ready := j.CreatedAt.Add(time.Duration(hours) * time.Hour)
	j.ReadyAt = &ready
	j.Status = model.JobDelivered
	return j
}

// WithCourier sets the courier confirmation
func (j JobFixture) WithCourier(confirmed bool) JobFixture {
	j.CourierConfirmedReady = &confirmed
	return j
}

// WithRating sets the customer rating
func (j JobFixture) WithRating(r int) JobFixture {
	j.Rating = &r
	return j
}

// WithStatus sets the job status
func (j JobFixture) WithStatus(s model.JobStatus) JobFixture {
	j.Status = s
	return j
}

func (j JobFixture) Job() model.SupplierJobRecord {
	return j.SupplierJobRecord
}
