package handler

import (
	"net/http"
	"time"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{container: container}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

// Check handles GET /health. Redis is optional, so a missing Redis reports
// "disabled" and never degrades the overall status; a failing database does.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := "healthy"
	components := map[string]string{}

	components["database"] = "healthy"
	if h.container.DB == nil {
		components["database"] = "disabled"
	} else if err := h.container.DB.Health(ctx); err != nil {
		components["database"] = "unhealthy"
		status = "unhealthy"
	}

	components["redis"] = "disabled"
	if h.container.HasRedis() {
		components["redis"] = "healthy"
		if err := h.container.RedisClient.Health(ctx); err != nil {
			components["redis"] = "unhealthy"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Service:    "with-api",
		Components: components,
	})
}
