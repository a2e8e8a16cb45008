package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookshelf/internal/httpx"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	log   *slog.Logger
}

func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: logger}
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
}

// Ready handles GET /readyz.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("readiness check failed", "error", err)
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "store not ready", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"status": "ready"}, nil)
}
