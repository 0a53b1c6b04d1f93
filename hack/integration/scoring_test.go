package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func getTestClient() *Client {
	url := DefaultLocalURL
	if u := os.Getenv("SUPPLIER_SCORING_URL"); u != "" {
		url = u
	}
	return NewClient(url)
}

func skipIfNoService(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.HealthCheck(ctx); err != nil {
		t.Skipf("Service not available: %v (run with docker-compose up)", err)
	}
}

// seededDatabase resets the service's MongoDB and loads a small fixture.
// Tests that need it skip unless MONGO_URI points at the database the
// service reads.
func seededDatabase(t *testing.T) {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping seeded scenario")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "crm"
	}

	ctx := context.Background()
	db, err := NewDatabase(uri, dbName)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	t.Cleanup(func() {
		_ = db.CleanAll(context.Background())
		_ = db.Close(context.Background())
	})

	if err := db.CleanAll(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}

	two, three := 2, 3
	five := 5.0
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	ready := created.Add(48 * time.Hour)
	confirmed := true

	err = db.Seed(ctx,
		[]Supplier{
			{ID: 1, Name: "Fast Print", Active: true, RatingPoints: 45, RatedDeals: 10},
			{ID: 2, Name: "Budget Press", Active: true},
			{ID: 3, Name: "Closed Shop", Active: false},
		},
		[]Offer{
			{SupplierID: 1, SizeQuantityID: 500, UnitPrice: 10, DeliveryDays: &two, QualityRating: &five},
			{SupplierID: 2, SizeQuantityID: 500, UnitPrice: 20, DeliveryDays: &three},
			{SupplierID: 3, SizeQuantityID: 500, UnitPrice: 1},
		},
		[]Job{
			{ID: 9001, SupplierID: 1, CreatedAt: created, PromisedDeliveryDays: &three, ReadyAt: &ready, CourierConfirmedReady: &confirmed, Status: "delivered"},
			{ID: 9002, SupplierID: 1, CreatedAt: created, Status: "in_progress"},
		},
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHealth(t *testing.T) {
	c := getTestClient()
	skipIfNoService(t, c)

	status, body, err := c.RequestWithStatus(context.Background(), http.MethodGet, "/health", nil)
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	if status != http.StatusOK || !strings.Contains(string(body), "healthy") {
		t.Errorf("health = %d %s", status, body)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	c := getTestClient()
	ctx := context.Background()
	skipIfNoService(t, c)

	original, err := c.GetWeights(ctx)
	if err != nil {
		t.Fatalf("get weights: %v", err)
	}
	t.Cleanup(func() { _, _ = c.PutWeights(context.Background(), *original) })

	want := Weights{Price: 25, Rating: 25, DeliveryTime: 25, Reliability: 25}
	if _, err := c.PutWeights(ctx, want); err != nil {
		t.Fatalf("put weights: %v", err)
	}
	got, err := c.GetWeights(ctx)
	if err != nil {
		t.Fatalf("get weights: %v", err)
	}
	if *got != want {
		t.Errorf("weights = %+v, want %+v", *got, want)
	}
}

func TestErrorResponses(t *testing.T) {
	c := getTestClient()
	ctx := context.Background()
	skipIfNoService(t, c)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"weights not summing to 100", http.MethodPut, "/v1/settings/weights", Weights{Price: 90, Rating: 90}, http.StatusBadRequest},
		{"zero quantity", http.MethodGet, "/v1/size-quantities/500/recommendations?quantity=0", nil, http.StatusBadRequest},
		{"non-numeric supplier", http.MethodGet, "/v1/suppliers/abc/score", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/v1/nothing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, err := c.RequestWithStatus(ctx, tt.method, tt.path, tt.body)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if status != tt.want {
				t.Errorf("status = %d, want %d (%s)", status, tt.want, body)
			}
		})
	}
}

func TestSeededScenario(t *testing.T) {
	c := getTestClient()
	ctx := context.Background()
	skipIfNoService(t, c)
	seededDatabase(t)

	set, err := c.Recommend(ctx, 500, 10)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(set.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2 (inactive supplier excluded)", len(set.Recommendations))
	}
	top := set.Recommendations[0]
	if top.SupplierID != 1 || top.PriceScore != 100 || top.DeliveryScore != 100 {
		t.Errorf("top recommendation = %+v", top)
	}
	if top.TotalCost != "100" {
		t.Errorf("total cost = %s, want 100", top.TotalCost)
	}

	report, err := c.Score(ctx, 1)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.TotalJobs != 2 || report.OpenJobs != 1 || report.CompletedJobs != 1 {
		t.Errorf("job counts = %d/%d/%d", report.TotalJobs, report.OpenJobs, report.CompletedJobs)
	}
	if report.Breakdown["base"].Value != 80 {
		t.Errorf("base = %v, want 80", report.Breakdown["base"].Value)
	}

	board, err := c.Leaderboard(ctx, []int64{2, 1})
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].SupplierID != 1 {
		t.Errorf("leaderboard order = %+v", board)
	}
}

func TestMetricsExposed(t *testing.T) {
	c := getTestClient()
	ctx := context.Background()
	skipIfNoService(t, c)

	if _, err := c.Score(ctx, 1); err != nil {
		t.Fatalf("score: %v", err)
	}
	status, body, err := c.RequestWithStatus(ctx, http.MethodGet, "/metrics", nil)
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("metrics status = %d", status)
	}
	for _, name := range []string{"supplier_scoring_score_duration_seconds", "supplier_scoring_http_requests_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}
