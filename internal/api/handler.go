// Package api implements the hosted caddie REST API.
// It provides generate and read endpoints for round insights.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/caddie/caddie/internal/service"
	"github.com/caddie/caddie/internal/store"
)

// Handler is the top-level API handler for the hosted insight service.
type Handler struct {
	svc   *service.Service
	ping  func(ctx context.Context) error
	cache *InsightCache
	log   *zap.Logger
}

// NewHandler creates a new API handler. ping backs the health check; a nil
// cache is replaced by one sized from the environment.
func NewHandler(svc *service.Service, ping func(ctx context.Context) error, cache *InsightCache, log *zap.Logger) *Handler {
	if cache == nil {
		cache = NewInsightCacheFromEnv()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:   svc,
		ping:  ping,
		cache: cache,
		log:   log,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/rounds/{roundID}/insights", h.handleGenerate)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/rounds/{roundID}/insights", h.handleGetInsight)
	mux.HandleFunc("GET /api/v1/rounds/{roundID}/insights/versions", h.handleListVersions)
	mux.HandleFunc("GET /api/v1/rounds/{roundID}/insights/versions/{version}", h.handleGetVersion)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")

	// The round ID in the body, if any, is overridden by the path.
	var req service.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.Round.ID = roundID

	res, err := h.svc.Generate(r.Context(), req)
	if err != nil && writeKnownError(w, err) {
		return
	}
	if err != nil {
		h.log.Error("generate insight", zap.String("round_id", roundID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate insight")
		return
	}

	h.cache.Put(res.Insight)
	status := http.StatusOK
	if res.Generated {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

func (h *Handler) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")

	if in, ok := h.cache.Get(roundID); ok {
		writeJSON(w, http.StatusOK, in)
		return
	}

	in, err := h.svc.Get(r.Context(), roundID)
	if err != nil && writeKnownError(w, err) {
		return
	}
	if err != nil {
		h.log.Error("load insight", zap.String("round_id", roundID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load insight")
		return
	}

	h.cache.Put(in)
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) handleListVersions(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")

	versions, err := h.svc.History(r.Context(), roundID)
	if err != nil && writeKnownError(w, err) {
		return
	}
	if err != nil {
		h.log.Error("list archived versions", zap.String("round_id", roundID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}
	if versions == nil {
		versions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"round_id": roundID, "versions": versions})
}

func (h *Handler) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")
	version := r.PathValue("version")

	in, err := h.svc.Archived(r.Context(), roundID, version)
	if err != nil && writeKnownError(w, err) {
		return
	}
	if err != nil {
		h.log.Error("load archived insight", zap.String("round_id", roundID), zap.String("version", version), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load archived insight")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// writeKnownError maps the service's sentinel errors to HTTP statuses and
// reports whether it wrote a response.
func writeKnownError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrArchiveDisabled):
		writeError(w, http.StatusNotFound, "insight archive is not configured")
	default:
		return false
	}
	return true
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
