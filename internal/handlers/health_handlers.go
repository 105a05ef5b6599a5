package handlers

import (
	"net/http"
	"time"

	"stockledger/internal/caching"
	"stockledger/internal/repositories"

	"github.com/labstack/echo/v4"
)

// HealthHandlers handles liveness and readiness probes.
type HealthHandlers struct {
	db       repositories.Database
	cacheSvc caching.CacheService
}

func NewHealthHandlers(db repositories.Database, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc}
}

// HealthCheck handles GET /health.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	status := "healthy"
	services := map[string]string{"database": "healthy", "cache": "healthy"}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		services["database"] = "unhealthy"
		status = "degraded"
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		services["cache"] = "unhealthy"
		status = "degraded"
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, map[string]any{
		"status":    status,
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /health/ready. The database is the only critical
// dependency; a degraded cache still serves traffic.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
