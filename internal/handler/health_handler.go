package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamerent/internal/database"
	"gamerent/internal/redis"
)

// HealthHandler liveness and dependency health
type HealthHandler struct{}

// NewHealthHandler creates a health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health reports service and dependency state
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	checks := gin.H{
		"database": "ok",
		"redis":    "ok",
	}

	if err := database.Health(); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	if err := redis.Health(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
