package router

import (
	"github.com/deppfellow/person-api/internal/handler"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the API
// itself: health, docs and metrics.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/openapi.json", h.OpenAPI.ServeOpenAPISpec)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if s.Metrics != nil {
		r.GET(s.Config.Observability.Metrics.Path, echo.WrapHandler(s.Metrics.Handler(s.Logger)))
	}
}
