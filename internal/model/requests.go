package model

import "github.com/deppfellow/person-api/internal/validation"

// Validate checks a Person on its own, as the body of POST /person/new.
func (p *Person) Validate() error {
	return validation.Struct(p)
}

// ShowPersonQuery holds the query parameters of GET /person/detail.
type ShowPersonQuery struct {
	Name *string `query:"name" json:"-" validate:"omitempty,min=1,max=50" doc:"Person name" example:"Rocio"`
	Age  *int    `query:"age" json:"-" validate:"required" doc:"Person age" example:"25"`
}

func (r *ShowPersonQuery) Validate() error {
	return validation.Struct(r)
}

// ShowPersonPathRequest is the input of GET /person/detail/{person_id}.
type ShowPersonPathRequest struct {
	PersonID int `param:"person_id" json:"-" validate:"gt=0" doc:"Person identifier" example:"123"`
}

func (r *ShowPersonPathRequest) Validate() error {
	return validation.Struct(r)
}

// UpdatePersonRequest is the input of PUT /person/{person_id}: the id from
// the path and both schemas as named members of the JSON body.
//
//	{ "person": { ... }, "location": { ... } }
type UpdatePersonRequest struct {
	PersonID int      `param:"person_id" json:"-" validate:"gt=0" doc:"Person identifier" example:"123"`
	Person   Person   `json:"person" doc:"Person to update"`
	Location Location `json:"location" doc:"Where the person lives"`
}

func (r *UpdatePersonRequest) Validate() error {
	return validation.Struct(r)
}
