package handler

import (
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Person  *PersonHandler  // Person serves the person endpoints.
	Health  *HealthHandler  // Health serves the status endpoint.
	OpenAPI *OpenAPIHandler // OpenAPI serves the document and the docs UI.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Person:  NewPersonHandler(s, services.Person),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
