package handlers

import (
	"context"
	"net/http"
)

// Pinger is anything that can confirm its backing connection is alive.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the health of the service's backing stores.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
}

// NewHealthHandler creates a new health handler. redis may be nil when the
// service runs without a cache.
func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK
	checks := map[string]string{}

	if err := h.postgres.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	respondWithJSON(w, status, map[string]interface{}{
		"success": status == http.StatusOK,
		"checks":  checks,
	})
}
