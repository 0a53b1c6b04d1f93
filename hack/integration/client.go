package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultLocalURL is the service address in the local docker-compose setup.
const DefaultLocalURL = "http://localhost:8080"

// Client is the integration test client
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new integration test client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Request makes an HTTP request
func (c *Client) Request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// JSON makes a request and decodes the JSON response
func (c *Client) JSON(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// RequestWithStatus makes a request and returns the status code
func (c *Client) RequestWithStatus(ctx context.Context, method, path string, body any) (int, []byte, error) {
	resp, err := c.Request(ctx, method, path, body)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, bodyBytes, nil
}

// HealthCheck checks if the service is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.Request(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

// WaitForService polls /health until it succeeds or timeout passes.
func (c *Client) WaitForService(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for %s", c.baseURL)
		}
		if err := c.HealthCheck(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
}

// Weights API

type Weights struct {
	Price        int `json:"price"`
	Rating       int `json:"rating"`
	DeliveryTime int `json:"delivery_time"`
	Reliability  int `json:"reliability"`
}

func (c *Client) GetWeights(ctx context.Context) (*Weights, error) {
	var result Weights
	err := c.JSON(ctx, http.MethodGet, "/v1/settings/weights", nil, &result)
	return &result, err
}

func (c *Client) PutWeights(ctx context.Context, w Weights) (*Weights, error) {
	var result Weights
	err := c.JSON(ctx, http.MethodPut, "/v1/settings/weights", w, &result)
	return &result, err
}

// Recommendation API

type Recommendation struct {
	SupplierID       int64   `json:"supplier_id"`
	Price            float64 `json:"price"`
	PriceScore       float64 `json:"price_score"`
	RatingScore      float64 `json:"rating_score"`
	DeliveryScore    float64 `json:"delivery_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	TotalScore       float64 `json:"total_score"`
	TotalCost        string  `json:"total_cost"`
}

type RecommendationSet struct {
	ID              string           `json:"id"`
	SizeQuantityID  int64            `json:"size_quantity_id"`
	Quantity        int              `json:"quantity"`
	Weights         Weights          `json:"weights"`
	Recommendations []Recommendation `json:"recommendations"`
	GeneratedAt     string           `json:"generated_at"`
}

func (c *Client) Recommend(ctx context.Context, sizeQuantityID int64, quantity int) (*RecommendationSet, error) {
	var result RecommendationSet
	path := fmt.Sprintf("/v1/size-quantities/%d/recommendations?quantity=%d", sizeQuantityID, quantity)
	err := c.JSON(ctx, http.MethodGet, path, nil, &result)
	return &result, err
}

// Score API

type SubScore struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

type ScoreReport struct {
	SupplierID    int64               `json:"supplier_id"`
	TotalJobs     int                 `json:"total_jobs"`
	CompletedJobs int                 `json:"completed_jobs"`
	OpenJobs      int                 `json:"open_jobs"`
	Breakdown     map[string]SubScore `json:"breakdown"`
	TotalScore    float64             `json:"total_score"`
}

func (c *Client) Score(ctx context.Context, supplierID int64) (*ScoreReport, error) {
	var result ScoreReport
	err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/v1/suppliers/%d/score", supplierID), nil, &result)
	return &result, err
}

func (c *Client) Leaderboard(ctx context.Context, supplierIDs []int64) ([]ScoreReport, error) {
	var result struct {
		Suppliers []ScoreReport `json:"suppliers"`
	}
	err := c.JSON(ctx, http.MethodPost, "/internal/v1/suppliers/scores", map[string]any{"supplier_ids": supplierIDs}, &result)
	return result.Suppliers, err
}
