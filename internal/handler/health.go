package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	sessionCache Pinger
	catalogStore Pinger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(sessionCache, catalogStore Pinger) *HealthHandler {
	return &HealthHandler{sessionCache: sessionCache, catalogStore: catalogStore}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready: the service is ready when the session cache
// and the catalog store answer.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"session_cache": "ok", "catalog_store": "ok"}
	ready := true

	if err := h.sessionCache.Ping(ctx); err != nil {
		checks["session_cache"] = err.Error()
		ready = false
	}
	if err := h.catalogStore.Ping(ctx); err != nil {
		checks["catalog_store"] = err.Error()
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
}
