package model

// Defaults applied to offers with missing data.
const (
	DefaultDeliveryDays  = 3
	DefaultQualityRating = 3.0
	DefaultAvgRating     = 3.0
)

// SupplierPriceOffer is one supplier's price for one size/quantity.
type SupplierPriceOffer struct {
	SupplierID     int64   `json:"supplier_id" bson:"supplier_id" yaml:"supplier_id"`
	SizeQuantityID int64   `json:"size_quantity_id" bson:"size_quantity_id" yaml:"size_quantity_id"`
	UnitPrice      float64 `json:"unit_price" bson:"unit_price" yaml:"unit_price"`

	DeliveryDays        *int     `json:"delivery_days,omitempty" bson:"delivery_days,omitempty" yaml:"delivery_days,omitempty"`
	QualityRating       *float64 `json:"quality_rating,omitempty" bson:"quality_rating,omitempty" yaml:"quality_rating,omitempty"`
	HistoricalAvgRating *float64 `json:"historical_avg_rating,omitempty" bson:"historical_avg_rating,omitempty" yaml:"historical_avg_rating,omitempty"`
}

func (o SupplierPriceOffer) Delivery() int {
	if o.DeliveryDays == nil {
		return DefaultDeliveryDays
	}
	return *o.DeliveryDays
}

func (o SupplierPriceOffer) Quality() float64 {
	if o.QualityRating == nil {
		return DefaultQualityRating
	}
	return *o.QualityRating
}

func (o SupplierPriceOffer) AvgRating() float64 {
	if o.HistoricalAvgRating == nil {
		return DefaultAvgRating
	}
	return *o.HistoricalAvgRating
}

// AverageRating derives the historical average from accumulated rating
// points. It returns nil when no deal has been rated.
func AverageRating(points float64, ratedDeals int) *float64 {
	if ratedDeals <= 0 {
		return nil
	}
	avg := points / float64(ratedDeals)
	return &avg
}

// MarketPriceStats compares a supplier's average unit price to the market.
// Zero offer counts mean the corresponding average is unknown.
type MarketPriceStats struct {
	SupplierAvg    float64 `json:"supplier_avg" bson:"supplier_avg"`
	SupplierOffers int     `json:"supplier_offers" bson:"supplier_offers"`
	MarketAvg      float64 `json:"market_avg" bson:"market_avg"`
	MarketOffers   int     `json:"market_offers" bson:"market_offers"`
}

func (m MarketPriceStats) HasData() bool {
	return m.SupplierOffers > 0 && m.MarketOffers > 0 && m.MarketAvg > 0
}
