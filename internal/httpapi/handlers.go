package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/model"
	"github.com/togengine-byte/CRM-sub003/internal/recommend"
	"github.com/togengine-byte/CRM-sub003/internal/service"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	svc    *service.Service
	logger *zap.Logger
}

type LeaderboardRequest struct {
	SupplierIDs []int64 `json:"supplier_ids"`
}

type LeaderboardResponse struct {
	Suppliers []model.ScoreReport `json:"suppliers"`
}

// recommend handles GET /v1/size-quantities/{id}/recommendations
func (h *handlers) recommend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	quantity := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_quantity", "quantity must be an integer")
			return
		}
		quantity = q
	}

	set, err := h.svc.Recommend(r.Context(), id, quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	set.Recommendations = recommend.Rounded(set.Recommendations)
	writeJSON(w, http.StatusOK, set)
}

// score handles GET /v1/suppliers/{id}/score
func (h *handlers) score(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.svc.ScoreSupplier(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Rounded())
}

// leaderboard handles POST /internal/v1/suppliers/scores
func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	var req LeaderboardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reports, err := h.svc.Leaderboard(r.Context(), req.SupplierIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := LeaderboardResponse{Suppliers: make([]model.ScoreReport, len(reports))}
	for i, rep := range reports {
		resp.Suppliers[i] = rep.Rounded()
	}
	writeJSON(w, http.StatusOK, resp)
}

// getWeights handles GET /v1/settings/weights
func (h *handlers) getWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.svc.GetWeights(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

// putWeights handles PUT /v1/settings/weights
func (h *handlers) putWeights(w http.ResponseWriter, r *http.Request) {
	var req model.WeightConfig
	if !decodeBody(w, r, &req) {
		return
	}

	saved, err := h.svc.UpdateWeights(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// fail maps service errors to responses. Anything unrecognized is a
// backend failure and is logged.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidWeights):
		respondError(w, r, http.StatusBadRequest, "invalid_weights", err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, r, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrInvalidSupplierID):
		respondError(w, r, http.StatusBadRequest, "invalid_id", err.Error())
	case errors.Is(err, service.ErrTooManySuppliers):
		respondError(w, r, http.StatusBadRequest, "too_many_suppliers", err.Error())
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		respondError(w, r, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		respondError(w, r, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(r.Context()),
		},
	})
}
