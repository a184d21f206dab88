package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/campaignkit/session-api/internal/redis"
)

// HealthResponse reports overall service health and per-component status
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

// HealthHandler serves GET /health
type HealthHandler struct {
	redis  redis.Client
	logger *slog.Logger
}

// NewHealthHandler creates a health handler that checks the Redis backend
func NewHealthHandler(client redis.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		redis:  client,
		logger: logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	status := "healthy"

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.Warn("redis health check failed", "error", err)
		components["redis"] = "unhealthy"
		status = "degraded"
	} else {
		components["redis"] = "healthy"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, h.logger, code, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Service:    "session-api",
		Components: components,
	})
}
