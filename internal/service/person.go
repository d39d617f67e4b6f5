package service

import (
	"strconv"

	"github.com/deppfellow/person-api/internal/model"
	"github.com/deppfellow/person-api/internal/server"
)

// ExistsMessage is the acknowledgement returned for a person looked up by id.
const ExistsMessage = "It exists!"

// nullKey is the key used when a detail lookup is made without a name.
const nullKey = "null"

type PersonService struct {
	server *server.Server
}

func NewPersonService(s *server.Server) *PersonService {
	return &PersonService{
		server: s,
	}
}

// Home returns the greeting served at the root route.
func (ps *PersonService) Home() map[string]string {
	return map[string]string{"Hello": "World"}
}

// Create returns the person it was given. Validation already happened in
// the handler, so this is a plain echo.
func (ps *PersonService) Create(p model.Person) model.Person {
	return p
}

// Show maps the requested name to the requested age. A missing name is
// reported under the key "null".
func (ps *PersonService) Show(name *string, age int) map[string]int {
	key := nullKey
	if name != nil {
		key = *name
	}
	return map[string]int{key: age}
}

// Exists acknowledges a person id. There is no store behind it, so every
// valid id exists.
func (ps *PersonService) Exists(personID int) map[string]string {
	return map[string]string{strconv.Itoa(personID): ExistsMessage}
}

// Update merges a person with a location into one flat record.
func (ps *PersonService) Update(personID int, p model.Person, loc model.Location) model.PersonLocation {
	ps.server.Logger.Debug().
		Int("person_id", personID).
		Msg("merging person with location")

	return model.PersonLocation{
		Person:   p,
		Location: loc,
	}
}
