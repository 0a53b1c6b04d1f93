package events

import (
	"time"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// Envelope wraps every published event.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SchemaVersion  string    `json:"schema_version"`
	IdempotencyKey string    `json:"idempotency_key"`
	Timestamp      time.Time `json:"timestamp"`
	Source         string    `json:"source"`
	Data           any       `json:"data"`
}

// Event type constants
const (
	EventWeightsUpdated           = "settings.weights_updated"
	EventSupplierScored           = "supplier.scored"
	EventRecommendationsGenerated = "recommendations.generated"
)

type WeightsUpdatedData struct {
	Previous  model.WeightConfig `json:"previous"`
	Current   model.WeightConfig `json:"current"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type SupplierScoredData struct {
	SupplierID int64   `json:"supplier_id"`
	TotalScore float64 `json:"total_score"`
	TotalJobs  int     `json:"total_jobs"`
	OpenJobs   int     `json:"open_jobs"`
}

type RecommendationsGeneratedData struct {
	RecommendationSetID string  `json:"recommendation_set_id"`
	SizeQuantityID      int64   `json:"size_quantity_id"`
	Quantity            int     `json:"quantity"`
	Candidates          int     `json:"candidates"`
	TopSupplierID       int64   `json:"top_supplier_id,omitempty"`
	TopScore            float64 `json:"top_score,omitempty"`
}
