package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/tv-shows/internal/database"
	"github.com/deppfellow/tv-shows/internal/middleware"
	"github.com/deppfellow/tv-shows/internal/server"
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

// CheckHealth pings the database through the bounded pool and reports the
// lease counters. It answers 503 when the ping fails. A pool with every
// lease busy is reported as saturated and stays 200.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	obs := h.server.Config.Observability
	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if obs == nil || obs.HealthCheckEnabled("database") {
		timeout := 5 * time.Second
		if obs != nil && obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		dbStart := time.Now()
		stats := h.server.DB.Pool.Stats()
		check := map[string]interface{}{
			"max_conns":   stats.MaxConns,
			"outstanding": stats.Outstanding,
		}

		err := h.server.DB.Pool.Ping(ctx)
		check["response_time"] = time.Since(dbStart).String()

		switch {
		case err == nil:
			check["status"] = "healthy"

		case errors.Is(err, database.ErrPoolExhausted):
			// Every lease is busy serving requests; the database itself
			// was never asked, so this is load, not an outage.
			check["status"] = "saturated"

			logger.Warn().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check skipped, pool saturated")

		default:
			check["status"] = "unhealthy"
			response["status"] = "unhealthy"

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
					"check_type":       "database",
					"error_type":       "database_unhealthy",
					"response_time_ms": time.Since(dbStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			}
		}

		checks["database"] = check
	}

	if response["status"] != "healthy" {
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
