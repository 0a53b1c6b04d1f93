package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/testutil"
)

type seededRepository interface {
	HistoryRepository
	Seeder
}

func seedHistory(t *testing.T, repo Seeder) {
	t.Helper()
	ctx := context.Background()

	rated := testutil.SupplierFixture(1)
	rated.RatingPoints, rated.RatedDeals = 18, 4
	inactive := testutil.SupplierFixture(3)
	inactive.Active = false
	for _, s := range []model.Supplier{rated, testutil.SupplierFixture(2), inactive} {
		require.NoError(t, repo.UpsertSupplier(ctx, s))
	}

	offers := []model.SupplierPriceOffer{
		testutil.NewOfferFixture(1, 100, 10).WithDeliveryDays(2).WithQuality(4).Offer(),
		testutil.NewOfferFixture(2, 100, 12).Offer(),
		testutil.NewOfferFixture(3, 100, 8).Offer(),
		testutil.NewOfferFixture(1, 200, 20).Offer(),
		testutil.NewOfferFixture(2, 200, 30).Offer(),
		testutil.NewOfferFixture(2, 300, 50).Offer(),
	}
	for _, o := range offers {
		require.NoError(t, repo.UpsertOffer(ctx, o))
	}

	jobs := []model.SupplierJobRecord{
		testutil.NewJobFixture(1, 1).WithPromise(2).ReadyAfter(24).WithCourier(true).WithRating(9).Job(),
		testutil.NewJobFixture(2, 1).WithPromise(3).Job(),
	}
	for _, j := range jobs {
		require.NoError(t, repo.PutJob(ctx, j))
	}
}

// runHistoryContract checks the behavior every HistoryRepository backed by
// writable storage must share.
func runHistoryContract(t *testing.T, repo seededRepository) {
	seedHistory(t, repo)
	ctx := context.Background()

	t.Run("candidate offers exclude inactive suppliers", func(t *testing.T) {
		offers, err := repo.CandidateOffers(ctx, 100)
		require.NoError(t, err)
		require.Len(t, offers, 2)

		assert.Equal(t, int64(1), offers[0].SupplierID)
		assert.Equal(t, 10.0, offers[0].UnitPrice)
		require.NotNil(t, offers[0].DeliveryDays)
		assert.Equal(t, 2, *offers[0].DeliveryDays)
		require.NotNil(t, offers[0].QualityRating)
		assert.Equal(t, 4.0, *offers[0].QualityRating)
		require.NotNil(t, offers[0].HistoricalAvgRating)
		assert.InDelta(t, 4.5, *offers[0].HistoricalAvgRating, 1e-9)

		assert.Equal(t, int64(2), offers[1].SupplierID)
		assert.Nil(t, offers[1].DeliveryDays)
		assert.Nil(t, offers[1].QualityRating)
		assert.Nil(t, offers[1].HistoricalAvgRating)
	})

	t.Run("unknown size quantity has no candidates", func(t *testing.T) {
		offers, err := repo.CandidateOffers(ctx, 999)
		require.NoError(t, err)
		assert.NotNil(t, offers)
		assert.Empty(t, offers)
	})

	t.Run("job history", func(t *testing.T) {
		jobs, err := repo.JobHistory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, jobs, 2)

		byID := map[int64]model.SupplierJobRecord{}
		for _, j := range jobs {
			byID[j.ID] = j
		}
		done := byID[1]
		assert.True(t, done.Completed())
		assert.True(t, done.CreatedAt.Equal(testutil.Epoch))
		days, _ := done.ActualDays()
		assert.InDelta(t, 1, days, 1e-9)
		require.NotNil(t, done.CourierConfirmedReady)
		assert.True(t, *done.CourierConfirmedReady)
		require.NotNil(t, done.Rating)
		assert.Equal(t, 9, *done.Rating)
		assert.Equal(t, model.JobDelivered, done.Status)

		open := byID[2]
		assert.False(t, open.Completed())
		assert.Nil(t, open.CourierConfirmedReady)
		assert.True(t, open.Open())

		none, err := repo.JobHistory(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("market stats", func(t *testing.T) {
		tests := []struct {
			supplier       int64
			supplierAvg    float64
			supplierOffers int
			marketAvg      float64
			marketOffers   int
		}{
			{1, 15, 2, 18, 4},
			{2, 92.0 / 3, 3, 24.4, 5},
			{3, 8, 1, 11, 2},
			{42, 0, 0, 0, 0},
		}
		for _, tt := range tests {
			got, err := repo.MarketAndSupplierAvgPrice(ctx, tt.supplier)
			require.NoError(t, err)
			assert.InDelta(t, tt.supplierAvg, got.SupplierAvg, 1e-9, "supplier %d", tt.supplier)
			assert.Equal(t, tt.supplierOffers, got.SupplierOffers, "supplier %d", tt.supplier)
			assert.InDelta(t, tt.marketAvg, got.MarketAvg, 1e-9, "supplier %d", tt.supplier)
			assert.Equal(t, tt.marketOffers, got.MarketOffers, "supplier %d", tt.supplier)
		}
	})

	t.Run("upserts replace", func(t *testing.T) {
		require.NoError(t, repo.UpsertOffer(ctx, testutil.NewOfferFixture(1, 100, 9).Offer()))
		require.NoError(t, repo.PutJob(ctx, testutil.NewJobFixture(2, 1).WithStatus(model.JobCancelled).Job()))

		offers, err := repo.CandidateOffers(ctx, 100)
		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.Equal(t, 9.0, offers[0].UnitPrice)
		assert.Nil(t, offers[0].DeliveryDays)

		jobs, err := repo.JobHistory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, 0, model.CountOpen(jobs))
	})

	// Seeders store rows as given; reads must refuse the ones that break
	// the record rules. Supplier 50 and size/quantity 900 are not used above.
	t.Run("invalid rows are rejected on read", func(t *testing.T) {
		require.NoError(t, repo.UpsertSupplier(ctx, testutil.SupplierFixture(50)))
		require.NoError(t, repo.UpsertOffer(ctx, testutil.NewOfferFixture(50, 900, -5).Offer()))
		require.NoError(t, repo.PutJob(ctx, testutil.NewJobFixture(900, 50).WithStatus("lost").Job()))

		_, err := repo.CandidateOffers(ctx, 900)
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
		assert.ErrorContains(t, err, "unit_price -5 is negative")

		_, err = repo.JobHistory(ctx, 50)
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
		assert.ErrorContains(t, err, `unknown status "lost"`)

		_, err = repo.MarketAndSupplierAvgPrice(ctx, 50)
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
	})
}

func runWeightStoreContract(t *testing.T, ws WeightStore) {
	ctx := context.Background()

	got, err := ws.GetWeights(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := model.WeightConfig{Price: 25, Rating: 25, DeliveryTime: 25, Reliability: 25}
	require.NoError(t, ws.SaveWeights(ctx, first))
	got, err = ws.GetWeights(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	second := model.WeightConfig{Price: 70, Rating: 10, DeliveryTime: 10, Reliability: 10}
	require.NoError(t, ws.SaveWeights(ctx, second))
	got, err = ws.GetWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, *got)
}

func TestMemoryStore(t *testing.T) {
	runHistoryContract(t, NewMemoryStore())
}

func TestMemoryWeightStore(t *testing.T) {
	runWeightStoreContract(t, NewMemoryWeightStore())
}

func TestMemoryWeightStore_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ws := NewMemoryWeightStore()
	require.NoError(t, ws.SaveWeights(ctx, model.DefaultWeights()))

	got, err := ws.GetWeights(ctx)
	require.NoError(t, err)
	got.Price = 0

	again, err := ws.GetWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultWeights(), *again)
}

func TestMemoryStore_JobHistoryIsCopy(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	require.NoError(t, ms.PutJob(ctx, testutil.NewJobFixture(1, 5).Job()))

	jobs, err := ms.JobHistory(ctx, 5)
	require.NoError(t, err)
	jobs[0].Status = model.JobCancelled

	again, err := ms.JobHistory(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.JobInProgress, again[0].Status)
}

func TestMarketStats(t *testing.T) {
	t.Run("exact average of repeated prices", func(t *testing.T) {
		got, err := marketStats([]float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2, 0.3})
		require.NoError(t, err)
		assert.Equal(t, 0.2, got.SupplierAvg)
		assert.Equal(t, got.SupplierAvg, got.MarketAvg)
		assert.Equal(t, 3, got.MarketOffers)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := marketStats([]float64{2}, []float64{2, -1})
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
	})

	t.Run("no prices", func(t *testing.T) {
		got, err := marketStats(nil, nil)
		require.NoError(t, err)
		assert.False(t, got.HasData())
	})
}
