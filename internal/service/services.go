package service

import (
	"github.com/deppfellow/person-api/internal/server"
)

// Services is a container for all service instances.
type Services struct {
	Person *PersonService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Person: NewPersonService(s),
	}
}
