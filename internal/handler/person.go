package handler

import (
	"github.com/deppfellow/person-api/internal/model"
	"github.com/deppfellow/person-api/internal/server"
	"github.com/deppfellow/person-api/internal/service"
	"github.com/labstack/echo/v4"
)

type PersonHandler struct {
	Handler
	personService *service.PersonService
}

func NewPersonHandler(s *server.Server, personService *service.PersonService) *PersonHandler {
	return &PersonHandler{
		Handler:       NewHandler(s),
		personService: personService,
	}
}

func (h *PersonHandler) Home(c echo.Context) (map[string]string, error) {
	return h.personService.Home(), nil
}

func (h *PersonHandler) CreatePerson(c echo.Context, req *model.Person) (model.Person, error) {
	return h.personService.Create(*req), nil
}

// ShowPerson answers GET /person/detail. Age is non-nil here: it is
// required by ShowPersonQuery's validation.
func (h *PersonHandler) ShowPerson(c echo.Context, req *model.ShowPersonQuery) (map[string]int, error) {
	return h.personService.Show(req.Name, *req.Age), nil
}

func (h *PersonHandler) ShowPersonByID(c echo.Context, req *model.ShowPersonPathRequest) (map[string]string, error) {
	return h.personService.Exists(req.PersonID), nil
}

func (h *PersonHandler) UpdatePerson(c echo.Context, req *model.UpdatePersonRequest) (model.PersonLocation, error) {
	return h.personService.Update(req.PersonID, req.Person, req.Location), nil
}
