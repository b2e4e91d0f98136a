package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"catalog/internal/httputil"
)

// HealthHandler reports liveness and, when a pinger is set, storage reachability
type HealthHandler struct {
	ping   func(ctx context.Context) error
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. ping may be nil.
func NewHealthHandler(ping func(ctx context.Context) error, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"time":   time.Now(),
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
