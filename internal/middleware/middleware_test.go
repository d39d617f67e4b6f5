package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/person-api/internal/config"
	"github.com/deppfellow/person-api/internal/errs"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, rl config.RateLimitConfig) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "local"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        1,
			WriteTimeout:       1,
			IdleTimeout:        1,
			ShutdownTimeout:    1,
			CORSAllowedOrigins: []string{"*"},
			BodyLimit:          "1K",
		},
		RateLimit:     rl,
		Observability: config.DefaultObservabilityConfig(),
	}

	s, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected a generated request id")
		}
		if rec.Body.String() != id {
			t.Errorf("expected context id %q, got %q", id, rec.Body.String())
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("expected abc-123, got %q", got)
		}
	})
}

func TestGetLogger_Fallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetLogger(c) == nil {
		t.Fatal("expected a no-op logger, got nil")
	}
}

func TestEnhanceContext(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	ce := NewContextEnhancer(s)

	e := echo.New()
	e.Use(RequestID(), ce.EnhanceContext())
	e.GET("/", func(c echo.Context) error {
		if _, ok := c.Get(LoggerKey).(*zerolog.Logger); !ok {
			t.Error("expected logger in echo context")
		}
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	global := NewGlobalMiddlewares(s)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "http error",
			err:        errs.NewUnprocessableEntityError("Validation failed: Age", true, []errs.FieldError{{Field: "age", Error: "is required"}}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNPROCESSABLE_ENTITY",
			wantMsg:    "Validation failed: Age",
		},
		{
			name:       "echo not found",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Route not found",
		},
		{
			name:       "echo method not allowed",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
			wantMsg:    "Method Not Allowed",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			body := decodeError(t, rec)
			if body.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, body.Code)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, body.Message)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("expected body status %d, got %d", tt.wantStatus, body.Status)
			}
		})
	}
}

func TestGlobalErrorHandler_KeepsFieldErrors(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	global.GlobalErrorHandler(errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{
		{Field: "person.age", Error: "must be greater than 0"},
	}), c)

	body := decodeError(t, rec)
	if !body.Override {
		t.Error("expected override to be preserved")
	}
	if !body.HasField("person.age") {
		t.Errorf("expected person.age field error, got %+v", body.Errors)
	}
}

func TestStatusFromError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"http error", errs.NewNotFoundError("x", false, nil), http.StatusNotFound},
		{"echo error", echo.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"plain", errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFromError(c, tt.err); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(NewMetricsMiddleware(s).Observe())
	e.GET("/person/detail/:person_id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/person/detail/1", "/person/detail/2", "/nowhere"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got, err := testutil.GatherAndCount(s.Metrics.Registry(), "person_api_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2 label sets, got %d", got)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001,
		Burst:             1,
		ExpiresIn:         time.Minute,
	})
	global := NewGlobalMiddlewares(s)
	rl := NewRateLimitMiddleware(s)

	e := echo.New()
	e.HTTPErrorHandler = global.GlobalErrorHandler
	e.Use(rl.Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/status", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	body := decodeError(t, second)
	if body.Action == nil || body.Action.Type != errs.ActionTypeRetry {
		t.Errorf("expected retry action, got %+v", body.Action)
	}

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected /status to skip the limiter, got %d", rec.Code)
		}
	}

	expected := `
# HELP person_api_rate_limit_hits_total Requests rejected by the rate limiter.
# TYPE person_api_rate_limit_hits_total counter
person_api_rate_limit_hits_total{route="/"} 1
`
	if err := testutil.GatherAndCompare(s.Metrics.Registry(), strings.NewReader(expected), "person_api_rate_limit_hits_total"); err != nil {
		t.Error(err)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Enabled: false})

	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := map[float64]string{
		20:  "1",
		1:   "1",
		0.5: "2",
		0:   "1",
	}
	for rps, want := range tests {
		if got := retryAfterSeconds(rps); got != want {
			t.Errorf("rps %v: expected %q, got %q", rps, want, got)
		}
	}
}
