package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/interview-qa/pkg/response"
)

// HealthChecker is satisfied by *database.PostgresDB and *redis.Client
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler takes named dependencies; nil entries are skipped
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	h := &HealthHandler{checks: make(map[string]HealthChecker, len(checks))}
	for name, chk := range checks {
		if chk != nil {
			h.checks[name] = chk
		}
	}
	return h
}

// Health is the liveness probe
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, "Service is healthy", gin.H{"status": "healthy"})
}

// Ready reports whether every dependency answers
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	results := make(map[string]string, len(h.checks))
	for name, chk := range h.checks {
		if err := chk.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		response.Error(c, http.StatusServiceUnavailable, "Service not ready", results)
		return
	}
	response.Success(c, "Service is ready", results)
}
