package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Pinger checks that the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// FallbackCounter reports how many signups wait in memory for the database.
type FallbackCounter interface {
	PendingFallback() int
}

// HealthHandler reports service health.
type HealthHandler struct {
	db       Pinger
	fallback FallbackCounter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, fallback FallbackCounter) *HealthHandler {
	return &HealthHandler{db: db, fallback: fallback}
}

// Health returns 200 when the database answers a ping and 503 otherwise.
// Signups are still accepted while it is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, dbState, code := "ok", "up", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check: database unreachable")
		status, dbState, code = "degraded", "down", http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]interface{}{
		"status":          status,
		"database":        dbState,
		"fallbackPending": h.fallback.PendingFallback(),
	})
}
