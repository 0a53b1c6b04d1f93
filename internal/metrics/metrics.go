// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supplier_scoring"

type Metrics struct {
	RecommendDuration prometheus.Histogram
	CandidateSetSize  prometheus.Histogram
	ScoreDuration     prometheus.Histogram
	SupplierScore     prometheus.Histogram
	WeightUpdates     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecommendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Time to fetch offers and rank candidates for one size/quantity",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		CandidateSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_candidates",
			Help:      "Number of candidate suppliers per recommendation",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		ScoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Time to fetch history and score one supplier",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		SupplierScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "supplier_total_score",
			Help:      "Distribution of computed supplier performance scores",
			Buckets:   []float64{50, 60, 70, 80, 90, 100, 110, 120, 130},
		}),
		WeightUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weight_updates_total",
			Help:      "Weight configuration updates by outcome",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.RecommendDuration,
		m.CandidateSetSize,
		m.ScoreDuration,
		m.SupplierScore,
		m.WeightUpdates,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

func (m *Metrics) ObserveRecommend(d time.Duration, candidates int) {
	m.RecommendDuration.Observe(d.Seconds())
	m.CandidateSetSize.Observe(float64(candidates))
}

func (m *Metrics) ObserveScore(d time.Duration, total float64) {
	m.ScoreDuration.Observe(d.Seconds())
	m.SupplierScore.Observe(total)
}

// WeightUpdate counts an update attempt; outcome is "accepted", "rejected"
// or "error".
func (m *Metrics) WeightUpdate(outcome string) {
	m.WeightUpdates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
