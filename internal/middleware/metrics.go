package middleware

import (
	"errors"
	"time"

	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that did not hit a registered route, so
// random URLs cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records every request in the server's metrics recorder.
type MetricsMiddleware struct {
	server *server.Server
}

func NewMetricsMiddleware(s *server.Server) *MetricsMiddleware {
	return &MetricsMiddleware{server: s}
}

// Observe counts the request and its latency, labelled by the route
// template rather than the raw URL.
func (m *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	recorder := m.server.Recorder()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			recorder.ObserveRequest(c.Request().Method, routeLabel(c, err), statusFromError(c, err), time.Since(start))

			return err
		}
	}
}

// routeLabel returns the matched route template or unmatchedRoute.
func routeLabel(c echo.Context, err error) string {
	path := c.Path()
	if path == "" || errors.Is(err, echo.ErrNotFound) {
		return unmatchedRoute
	}
	return path
}
