package handler

import (
	"time"

	"github.com/deppfellow/person-api/internal/middleware"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers (PersonHandler, HealthHandler, ...) embed it so they can
// reach the config, logger and metrics through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Request is the constraint for request payloads: PReq is a pointer to
// Req that knows how to validate itself. The pipeline allocates a fresh
// Req for every call so concurrent requests never share a payload.
type Request[Req any] interface {
	*Req
	validation.Validatable
}

// Handle wraps a typed endpoint with binding, validation, logging,
// metrics and tracing, and writes its result as JSON with status.
//
// The endpoint receives a bound and validated payload and returns the
// response body or an error.
//
//	router.POST("/person/new", handler.Handle(h, h.CreatePerson, http.StatusOK))
func Handle[Req any, Res any, PReq Request[Req]](
	h Handler,
	handler func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))

		return h.handleRequest(c, status,
			func() error {
				return validation.BindAndValidate(c, req)
			},
			func() (interface{}, error) {
				return handler(c, req)
			},
		)
	}
}

// HandleNoInput is Handle for endpoints that take no input at all. The
// request is never bound, so whatever the client sends is ignored.
func HandleNoInput[Res any](
	h Handler,
	handler func(c echo.Context) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.handleRequest(c, status, nil, func() (interface{}, error) {
			return handler(c)
		})
	}
}

// handleRequest is the shared execution pipeline for all handlers.
//
// It centralizes:
//   - request binding + validation (skipped when bind is nil)
//   - structured logging with the request-scoped logger
//   - New Relic attributes and error reporting
//   - validation failure metrics
//   - the JSON response
func (h Handler) handleRequest(
	c echo.Context,
	status int,
	bind func() error,
	run func() (interface{}, error),
) error {
	start := time.Now()
	route := c.Path()

	// Set by the New Relic Echo middleware, nil when New Relic is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if bind != nil {
		if err := bind(); err != nil {
			validationDuration := time.Since(validationStart)

			logger.Warn().
				Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			h.server.Recorder().IncValidationFailure(route)

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}

			// The global error handler formats the response.
			return err
		}
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := run()
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return c.JSON(status, result)
}
