package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation is one ranked candidate for a size/quantity request.
type Recommendation struct {
	SupplierID int64 `json:"supplier_id"`

	Price         float64 `json:"price"`
	DeliveryDays  int     `json:"delivery_days"`
	QualityRating float64 `json:"quality_rating"`
	AvgRating     float64 `json:"avg_rating"`

	PriceScore       float64 `json:"price_score"`
	RatingScore      float64 `json:"rating_score"`
	DeliveryScore    float64 `json:"delivery_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	TotalScore       float64 `json:"total_score"`

	TotalCost decimal.Decimal `json:"total_cost"`
	Weights   WeightConfig    `json:"weights"`
}

// RecommendationSet wraps one ranking run.
type RecommendationSet struct {
	ID              string           `json:"id"`
	SizeQuantityID  int64            `json:"size_quantity_id"`
	Quantity        int              `json:"quantity"`
	Weights         WeightConfig     `json:"weights"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
