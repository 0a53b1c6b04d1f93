package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRecommend(5*time.Millisecond, 3)
	m.ObserveScore(time.Millisecond, 87.5)
	m.WeightUpdate("accepted")
	m.WeightUpdate("rejected")
	m.WeightUpdate("rejected")
	m.ObserveHTTP("/v1/settings/weights", "PUT", 400, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"supplier_scoring_recommend_duration_seconds",
		"supplier_scoring_recommend_candidates",
		"supplier_scoring_score_duration_seconds",
		"supplier_scoring_supplier_total_score",
		"supplier_scoring_weight_updates_total",
		"supplier_scoring_http_requests_total",
		"supplier_scoring_http_request_duration_seconds",
	}, names)

	assert.Equal(t, 2.0, counterValue(t, m.WeightUpdates.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, counterValue(t, m.WeightUpdates.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, counterValue(t, m.HTTPRequests.WithLabelValues("/v1/settings/weights", "PUT", "400")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
