// Package recommend ranks the candidate suppliers for one size/quantity.
//
// Price and delivery are min-max normalized across the candidate set, since
// absolute prices mean nothing across product families; ratings are already
// bounded and scale linearly. The weighted sum of the four 0-100 factor
// scores gives the total.
package recommend

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/stats"
)

const maxRating = 5.0

// Recommend scores every offer and returns them sorted by total score,
// highest first. Ties keep input order. Weights must already be valid.
func Recommend(offers []model.SupplierPriceOffer, weights model.WeightConfig, quantity int) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(offers))
	if len(offers) == 0 {
		return out
	}

	prices := make([]float64, len(offers))
	deliveries := make([]float64, len(offers))
	for i, o := range offers {
		prices[i] = o.UnitPrice
		deliveries[i] = float64(o.Delivery())
	}
	minPrice, maxPrice := stats.MinMax(prices)
	minDelivery, maxDelivery := stats.MinMax(deliveries)

	qty := decimal.NewFromInt(int64(quantity))
	for i, o := range offers {
		rec := model.Recommendation{
			SupplierID:    o.SupplierID,
			Price:         o.UnitPrice,
			DeliveryDays:  o.Delivery(),
			QualityRating: o.Quality(),
			AvgRating:     o.AvgRating(),

			PriceScore:       stats.Clamp(stats.InvertedMinMax(prices[i], minPrice, maxPrice), 0, 100),
			DeliveryScore:    stats.Clamp(stats.InvertedMinMax(deliveries[i], minDelivery, maxDelivery), 0, 100),
			RatingScore:      stats.Clamp(o.AvgRating()/maxRating*100, 0, 100),
			ReliabilityScore: stats.Clamp(o.Quality()/maxRating*100, 0, 100),

			TotalCost: decimal.NewFromFloat(o.UnitPrice).Mul(qty),
			Weights:   weights,
		}
		rec.TotalScore = totalScore(rec, weights)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalScore > out[b].TotalScore
	})
	return out
}

func totalScore(r model.Recommendation, w model.WeightConfig) float64 {
	return r.PriceScore*float64(w.Price)/100 +
		r.RatingScore*float64(w.Rating)/100 +
		r.DeliveryScore*float64(w.DeliveryTime)/100 +
		r.ReliabilityScore*float64(w.Reliability)/100
}

// Rounded returns a display copy with every score rounded to one decimal.
func Rounded(recs []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	for i, r := range recs {
		r.PriceScore = stats.Round1(r.PriceScore)
		r.RatingScore = stats.Round1(r.RatingScore)
		r.DeliveryScore = stats.Round1(r.DeliveryScore)
		r.ReliabilityScore = stats.Round1(r.ReliabilityScore)
		r.TotalScore = stats.Round1(r.TotalScore)
		out[i] = r
	}
	return out
}
