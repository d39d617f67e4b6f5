// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps every path to its handler.
package router

import (
	"github.com/deppfellow/person-api/internal/handler"
	"github.com/deppfellow/person-api/internal/middleware"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware chain and
// all routes registered.
//
// Middleware order matters:
//   - Recover first so a panic anywhere below becomes a 500
//   - RequestID before everything that logs or traces
//   - New Relic before EnhanceTracing and ContextEnhancer, which read the transaction
//   - Metrics before RateLimit so denied requests are still counted
func NewRouter(s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		mw.Global.Recover(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Metrics.Observe(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.BodyLimit(),
		mw.Global.RequestLogger(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(router, s, h)
	registerPersonRoutes(router, h)

	return router
}
