package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/person-api/internal/middleware"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a "system" endpoint that load balancers and uptime
// monitors can use to verify the service is alive.
//
// The service has no external dependencies, so a response at all means
// it is healthy.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns status, timestamp (UTC), environment and uptime.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"uptime":      time.Since(h.server.StartedAt).Round(time.Second).String(),
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":    "response",
					"operation":     "health_check",
					"error_type":    "json_response_error",
					"error_message": err.Error(),
				},
			)
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
