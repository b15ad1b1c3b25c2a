package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/catalog"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
)

// AdminHandler exposes the operational endpoints behind admin auth.
type AdminHandler struct {
	matcher *catalog.Matcher
	logger  *logger.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(matcher *catalog.Matcher, log *logger.Logger) *AdminHandler {
	return &AdminHandler{matcher: matcher, logger: log}
}

// RefreshCatalog handles POST /admin/catalog/refresh: an explicit forced
// reload of the catalog cache.
func (h *AdminHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.matcher.Refresh(r.Context(), true); err != nil {
		h.logger.Error("forced catalog refresh failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "catalog refresh failed")
		return
	}
	entries, loadedAt := h.matcher.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":   entries,
		"loaded_at": loadedAt.UTC().Format(time.RFC3339),
	})
}

// CatalogStatus handles GET /admin/catalog.
func (h *AdminHandler) CatalogStatus(w http.ResponseWriter, r *http.Request) {
	entries, loadedAt := h.matcher.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":   entries,
		"loaded_at": loadedAt.UTC().Format(time.RFC3339),
		"age_sec":   int(time.Since(loadedAt).Seconds()),
	})
}
