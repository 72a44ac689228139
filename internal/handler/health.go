package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/jersey-rota/internal/middleware"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth runs the configured dependency checks.
//
// It returns 200 with status "healthy" when all pass, otherwise 503 with
// status "unhealthy". Each check is bounded by the health check timeout.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability.HealthChecks

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   h.server.Clock.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !cfg.Enabled {
		return c.JSON(http.StatusOK, response)
	}

	isHealthy := true
	for _, name := range cfg.Checks {
		if name != "database" {
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
		dbStart := time.Now()
		err := h.server.DB.Ping(ctx)
		cancel()

		if err != nil {
			isHealthy = false
			checks["database"] = map[string]interface{}{
				"status":        "unhealthy",
				"driver":        string(h.server.DB.Driver),
				"response_time": time.Since(dbStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
					"check_type":       "database",
					"operation":        "health_check",
					"error_type":       "database_unhealthy",
					"response_time_ms": time.Since(dbStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			}
			continue
		}

		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"driver":        string(h.server.DB.Driver),
			"response_time": time.Since(dbStart).String(),
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
