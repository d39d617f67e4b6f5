package router

import (
	"net/http"

	"github.com/deppfellow/person-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerPersonRoutes(r *echo.Echo, h *handler.Handlers) {
	p := h.Person

	r.GET("/", handler.HandleNoInput(p.Handler, p.Home, http.StatusOK))

	person := r.Group("/person")
	person.POST("/new", handler.Handle(p.Handler, p.CreatePerson, http.StatusOK))
	person.GET("/detail", handler.Handle(p.Handler, p.ShowPerson, http.StatusOK))
	person.GET("/detail/:person_id", handler.Handle(p.Handler, p.ShowPersonByID, http.StatusOK))
	person.PUT("/:person_id", handler.Handle(p.Handler, p.UpdatePerson, http.StatusOK))
}
