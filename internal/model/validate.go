package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRecord is wrapped by every offer, job and market stats
// validation failure.
var ErrInvalidRecord = errors.New("invalid record")

const (
	MaxRating    = 5.0
	MinJobRating = 1
	MaxJobRating = 10
)

// Validate checks the offer's price and the optional fields that are set.
func (o SupplierPriceOffer) Validate() error {
	switch {
	case math.IsNaN(o.UnitPrice) || math.IsInf(o.UnitPrice, 0):
		return o.invalid("unit_price %v is not a finite number", o.UnitPrice)
	case o.UnitPrice < 0:
		return o.invalid("unit_price %v is negative", o.UnitPrice)
	case o.DeliveryDays != nil && *o.DeliveryDays < 0:
		return o.invalid("delivery_days %d is negative", *o.DeliveryDays)
	case o.QualityRating != nil && !inRating(*o.QualityRating):
		return o.invalid("quality_rating %v is outside [0,5]", *o.QualityRating)
	case o.HistoricalAvgRating != nil && !inRating(*o.HistoricalAvgRating):
		return o.invalid("historical_avg_rating %v is outside [0,5]", *o.HistoricalAvgRating)
	}
	return nil
}

func (o SupplierPriceOffer) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: offer %d/%d: %s", ErrInvalidRecord, o.SupplierID, o.SizeQuantityID, fmt.Sprintf(format, args...))
}

// Validate checks the status and the optional fields that are set.
func (j SupplierJobRecord) Validate() error {
	switch {
	case !j.Status.Known():
		return j.invalid("unknown status %q", j.Status)
	case j.PromisedDeliveryDays != nil && *j.PromisedDeliveryDays < 0:
		return j.invalid("promised_delivery_days %d is negative", *j.PromisedDeliveryDays)
	case j.Rating != nil && (*j.Rating < MinJobRating || *j.Rating > MaxJobRating):
		return j.invalid("rating %d is outside [1,10]", *j.Rating)
	}
	return nil
}

func (j SupplierJobRecord) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: job %d: %s", ErrInvalidRecord, j.ID, fmt.Sprintf(format, args...))
}

func (s JobStatus) Known() bool {
	switch s {
	case JobPending, JobInProgress, JobReady, JobDelivered, JobCancelled:
		return true
	}
	return false
}

// Validate rejects negative counts and negative or non-finite averages.
func (m MarketPriceStats) Validate() error {
	switch {
	case m.SupplierOffers < 0 || m.MarketOffers < 0:
		return fmt.Errorf("%w: market stats: negative offer count", ErrInvalidRecord)
	case !finiteNonNegative(m.SupplierAvg):
		return fmt.Errorf("%w: market stats: supplier_avg %v", ErrInvalidRecord, m.SupplierAvg)
	case !finiteNonNegative(m.MarketAvg):
		return fmt.Errorf("%w: market stats: market_avg %v", ErrInvalidRecord, m.MarketAvg)
	}
	return nil
}

// ValidateOffers returns the first invalid offer's error.
func ValidateOffers(offers []SupplierPriceOffer) error {
	for _, o := range offers {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateJobs returns the first invalid job's error.
func ValidateJobs(jobs []SupplierJobRecord) error {
	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func inRating(v float64) bool {
	return v >= 0 && v <= MaxRating
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
