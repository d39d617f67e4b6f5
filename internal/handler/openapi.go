package handler

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/deppfellow/person-api/internal/openapi"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed docs.html
var docsPage string

// OpenAPIHandler serves the OpenAPI document and a UI to try the API.
//
// The document is built once at start-up; it only depends on the types.
type OpenAPIHandler struct {
	Handler
	document []byte
	buildErr error
}

// NewOpenAPIHandler constructs an OpenAPIHandler with access to shared dependencies.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	document, err := json.Marshal(openapi.Build())

	return &OpenAPIHandler{
		Handler:  NewHandler(s),
		document: document,
		buildErr: err,
	}
}

// ServeOpenAPISpec writes the OpenAPI document as JSON.
func (h *OpenAPIHandler) ServeOpenAPISpec(c echo.Context) error {
	if h.buildErr != nil {
		return fmt.Errorf("failed to build OpenAPI document: %w", h.buildErr)
	}
	return c.JSONBlob(http.StatusOK, h.document)
}

// ServeOpenAPIUI serves the docs page, which loads /openapi.json.
//
// Cache-Control is set to "no-cache" so clients do not reuse an old docs UI.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTML(http.StatusOK, docsPage); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
