package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

const epsilon = 1e-9

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func offer(id int64, price float64, days int, avg float64) model.SupplierPriceOffer {
	return model.SupplierPriceOffer{
		SupplierID:          id,
		UnitPrice:           price,
		DeliveryDays:        intPtr(days),
		HistoricalAvgRating: floatPtr(avg),
	}
}

func TestRecommend_ConcreteScenario(t *testing.T) {
	offers := []model.SupplierPriceOffer{
		offer(1, 10, 2, 4),
		offer(2, 20, 4, 5),
	}
	weights := model.WeightConfig{Price: 50, Rating: 50}

	recs := Recommend(offers, weights, 100)
	require.Len(t, recs, 2)

	first, second := recs[0], recs[1]
	assert.Equal(t, int64(1), first.SupplierID)
	assert.InDelta(t, 100, first.PriceScore, epsilon)
	assert.InDelta(t, 80, first.RatingScore, epsilon)
	assert.InDelta(t, 90, first.TotalScore, epsilon)

	assert.Equal(t, int64(2), second.SupplierID)
	assert.InDelta(t, 0, second.PriceScore, epsilon)
	assert.InDelta(t, 100, second.RatingScore, epsilon)
	assert.InDelta(t, 50, second.TotalScore, epsilon)

	assert.Equal(t, "1000", first.TotalCost.String())
	assert.Equal(t, "2000", second.TotalCost.String())
	assert.Equal(t, weights, first.Weights)
}

func TestRecommend_EmptyInput(t *testing.T) {
	recs := Recommend(nil, model.DefaultWeights(), 5)
	require.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_DegenerateCandidateSets(t *testing.T) {
	tests := []struct {
		name   string
		offers []model.SupplierPriceOffer
	}{
		{"single candidate", []model.SupplierPriceOffer{offer(1, 12.5, 3, 4)}},
		{"equal price and delivery", []model.SupplierPriceOffer{
			offer(1, 8, 2, 2),
			offer(2, 8, 2, 4),
			offer(3, 8, 2, 5),
		}},
		{"missing delivery defaults to same value", []model.SupplierPriceOffer{
			{SupplierID: 1, UnitPrice: 3},
			{SupplierID: 2, UnitPrice: 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range Recommend(tt.offers, model.DefaultWeights(), 1) {
				assert.Equal(t, 100.0, r.PriceScore)
				assert.Equal(t, 100.0, r.DeliveryScore)
			}
		})
	}
}

func TestRecommend_Defaults(t *testing.T) {
	recs := Recommend([]model.SupplierPriceOffer{{SupplierID: 9, UnitPrice: 1.5}}, model.DefaultWeights(), 4)
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, model.DefaultDeliveryDays, r.DeliveryDays)
	assert.Equal(t, model.DefaultQualityRating, r.QualityRating)
	assert.Equal(t, model.DefaultAvgRating, r.AvgRating)
	assert.InDelta(t, 60, r.RatingScore, epsilon)
	assert.InDelta(t, 60, r.ReliabilityScore, epsilon)
	assert.Equal(t, "6", r.TotalCost.String())
}

func TestRecommend_ScoreBounds(t *testing.T) {
	offers := []model.SupplierPriceOffer{
		{SupplierID: 1, UnitPrice: 0, DeliveryDays: intPtr(0), QualityRating: floatPtr(5), HistoricalAvgRating: floatPtr(5)},
		{SupplierID: 2, UnitPrice: 999, DeliveryDays: intPtr(30), QualityRating: floatPtr(0), HistoricalAvgRating: floatPtr(0)},
		{SupplierID: 3, UnitPrice: 47.2, DeliveryDays: intPtr(7), QualityRating: floatPtr(7), HistoricalAvgRating: floatPtr(6.5)},
		{SupplierID: 4, UnitPrice: 120},
	}
	weightSets := []model.WeightConfig{
		model.DefaultWeights(),
		{Price: 100},
		{Rating: 100},
		{DeliveryTime: 100},
		{Reliability: 100},
		{Price: 25, Rating: 25, DeliveryTime: 25, Reliability: 25},
	}

	for _, w := range weightSets {
		for _, r := range Recommend(offers, w, 3) {
			for _, s := range []float64{r.PriceScore, r.RatingScore, r.DeliveryScore, r.ReliabilityScore, r.TotalScore} {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0+epsilon)
			}
		}
	}
}

func TestRecommend_SortedDescendingAndStable(t *testing.T) {
	offers := []model.SupplierPriceOffer{
		offer(1, 10, 3, 3),
		offer(2, 5, 3, 3),
		offer(3, 10, 3, 3),
		offer(4, 10, 3, 3),
	}
	recs := Recommend(offers, model.WeightConfig{Price: 100}, 1)

	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.SupplierID
	}
	assert.Equal(t, []int64{2, 1, 3, 4}, ids)
}

func TestRecommend_PriceMonotonicity(t *testing.T) {
	base := []model.SupplierPriceOffer{
		offer(1, 30, 2, 4),
		offer(2, 20, 4, 3),
		offer(3, 45, 1, 5),
	}
	find := func(recs []model.Recommendation, id int64) model.Recommendation {
		for _, r := range recs {
			if r.SupplierID == id {
				return r
			}
		}
		t.Fatalf("supplier %d missing", id)
		return model.Recommendation{}
	}

	prev := find(Recommend(base, model.DefaultWeights(), 1), 1)
	for _, price := range []float64{28, 25, 21, 20, 15, 1} {
		offers := append([]model.SupplierPriceOffer(nil), base...)
		offers[0].UnitPrice = price
		cur := find(Recommend(offers, model.DefaultWeights(), 1), 1)

		assert.GreaterOrEqual(t, cur.PriceScore, prev.PriceScore, "price %v", price)
		assert.GreaterOrEqual(t, cur.TotalScore, prev.TotalScore, "price %v", price)
		prev = cur
	}
	assert.Equal(t, 100.0, prev.PriceScore)
}

func TestRounded(t *testing.T) {
	recs := []model.Recommendation{{PriceScore: 33.333333, RatingScore: 66.66, DeliveryScore: 12.25, ReliabilityScore: 0.04, TotalScore: 48.96}}
	out := Rounded(recs)
	assert.Equal(t, 33.3, out[0].PriceScore)
	assert.Equal(t, 66.7, out[0].RatingScore)
	assert.Equal(t, 12.3, out[0].DeliveryScore)
	assert.Equal(t, 0.0, out[0].ReliabilityScore)
	assert.Equal(t, 49.0, out[0].TotalScore)
	assert.Equal(t, 33.333333, recs[0].PriceScore)
}
