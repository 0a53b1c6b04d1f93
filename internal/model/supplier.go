package model

// Supplier is the slice of the CRM supplier record the engine reads.
// Inactive suppliers never appear as candidates or in market averages.
type Supplier struct {
	ID           int64   `json:"id" bson:"id" yaml:"id"`
	Name         string  `json:"name" bson:"name" yaml:"name"`
	Active       bool    `json:"active" bson:"active" yaml:"active"`
	RatingPoints float64 `json:"rating_points" bson:"rating_points" yaml:"rating_points"`
	RatedDeals   int     `json:"rated_deals" bson:"rated_deals" yaml:"rated_deals"`
}

// AvgRating returns the historical average rating, or nil when unrated.
func (s Supplier) AvgRating() *float64 {
	return AverageRating(s.RatingPoints, s.RatedDeals)
}
