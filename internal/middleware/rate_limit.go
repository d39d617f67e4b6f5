package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a token bucket per client IP and reports
// every denied request to New Relic and Prometheus.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter, or a pass-through when rate_limit.enabled is
// false. System routes (status, metrics, docs) are never limited.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RequestsPerSecond),
		Burst:     cfg.Burst,
		ExpiresIn: cfg.ExpiresIn,
	})

	retryAfter := retryAfterSeconds(cfg.RequestsPerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: r.skip,
		Store:   store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Client could not be identified", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())

			GetLogger(c).Warn().
				Str("identifier", identifier).
				Msg("rate limit exceeded")

			c.Response().Header().Set("Retry-After", retryAfter)
			return errs.NewTooManyRequestsError("Rate limit exceeded", retryAfter+"s")
		},
	})
}

// RecordRateLimitHit reports a denied request for endpoint.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	r.server.Recorder().IncRateLimitHit(endpoint)

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

func (r *RateLimitMiddleware) skip(c echo.Context) bool {
	switch c.Path() {
	case "/status", "/openapi.json", "/docs", r.server.Config.Observability.Metrics.Path:
		return true
	}
	return c.Request().Method == http.MethodOptions
}

// retryAfterSeconds is the time, rounded up to whole seconds, until the
// bucket refills one token.
func retryAfterSeconds(rps float64) string {
	if rps <= 0 {
		return "1"
	}
	return strconv.Itoa(int(math.Max(math.Ceil(1/rps), 1)))
}
