// Package httpapi exposes the scoring service over HTTP.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/metrics"
	"github.com/togengine-byte/CRM-sub003/internal/service"
)

// Deps holds everything the router needs.
type Deps struct {
	Service  *service.Service
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{svc: d.Service, logger: logger}

	r := mux.NewRouter()
	r.Use(captureRoute)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/size-quantities/{id}/recommendations", h.recommend).Methods(http.MethodGet)
	v1.HandleFunc("/suppliers/{id}/score", h.score).Methods(http.MethodGet)
	v1.HandleFunc("/settings/weights", h.getWeights).Methods(http.MethodGet)
	v1.HandleFunc("/settings/weights", h.putWeights).Methods(http.MethodPut)

	r.HandleFunc("/internal/v1/suppliers/scores", h.leaderboard).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Recovery sits inside Logging and Instrument so a panic is logged and
	// counted as the 500 it becomes.
	var handler http.Handler = r
	handler = Recovery(logger)(handler)
	if d.Metrics != nil {
		handler = Instrument(d.Metrics)(handler)
	}
	handler = Logging(logger)(handler)
	handler = RequestID(handler)
	return handler
}
