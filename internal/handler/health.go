package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/spendwise/spendwise/internal/handler/dto"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for db or cache if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// healthData is the payload for the readiness endpoint.
type healthData struct {
	Checks map[string]string `json:"checks"`
}

// Health is a liveness probe endpoint: 200 whenever the server runs.
// No dependency checks.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		Timestamp time.Time `json:"timestamp"`
		Data      any       `json:"data"`
	}{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
	})
}

// Ready is a readiness probe endpoint.
// It checks all dependencies and returns 200 only if all are healthy.
//
// GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := http.StatusOK
	message := "Ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		message = "Not ready"
	}

	writeJSON(w, status, dto.Response{
		Success: healthy,
		Message: message,
		Data:    healthData{Checks: checks},
	})
}
