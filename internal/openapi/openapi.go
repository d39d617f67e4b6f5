// Package openapi builds the OpenAPI 3 document of the API.
//
// Schemas are derived from the same struct tags the validation package
// enforces, so the document cannot drift from the runtime rules.
package openapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/deppfellow/person-api/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
)

const (
	Title   = "Person API"
	Version = "1.0.0"

	tagPerson = "person"
	tagSystem = "system"
)

// Build returns the document describing every public route.
func Build() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Version:     Version,
			Description: "Create, look up and update people. Every request is validated against its schema before it reaches a handler.",
		},
		Paths: openapi3.NewPaths(),
		Tags: openapi3.Tags{
			{Name: tagPerson, Description: "Person operations"},
			{Name: tagSystem, Description: "Service status"},
		},
	}

	person := SchemaOf(reflect.TypeOf(model.Person{}))
	location := SchemaOf(reflect.TypeOf(model.Location{}))

	doc.AddOperation("/", http.MethodGet, operation(
		"home", tagPerson, "Greeting",
		jsonResponse(http.StatusOK, "Greeting", openapi3.NewObjectSchema().
			WithProperty("Hello", openapi3.NewStringSchema()).
			WithRequired([]string{"Hello"})),
	))

	create := operation(
		"createPerson", tagPerson, "Create a person",
		jsonResponse(http.StatusOK, "The person as received", person),
	)
	create.RequestBody = jsonBody("Person to create", person)
	doc.AddOperation("/person/new", http.MethodPost, create)

	showQuery := operation(
		"showPerson", tagPerson, "Map a name to an age",
		jsonResponse(http.StatusOK, "Name mapped to age, \"null\" when no name was given",
			openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewIntegerSchema())),
	)
	showQuery.Parameters = parameters(reflect.TypeOf(model.ShowPersonQuery{}))
	doc.AddOperation("/person/detail", http.MethodGet, showQuery)

	showPath := operation(
		"showPersonByID", tagPerson, "Check that a person exists",
		jsonResponse(http.StatusOK, "Existence acknowledgement",
			openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())),
	)
	showPath.Parameters = parameters(reflect.TypeOf(model.ShowPersonPathRequest{}))
	doc.AddOperation("/person/detail/{person_id}", http.MethodGet, showPath)

	update := operation(
		"updatePerson", tagPerson, "Merge a person with a location",
		jsonResponse(http.StatusOK, "Person and location as one object",
			SchemaOf(reflect.TypeOf(model.PersonLocation{}))),
	)
	update.Parameters = parameters(reflect.TypeOf(model.UpdatePersonRequest{}))
	update.RequestBody = jsonBody("Person and location", openapi3.NewObjectSchema().
		WithProperty("person", person).
		WithProperty("location", location).
		WithRequired([]string{"person", "location"}))
	doc.AddOperation("/person/{person_id}", http.MethodPut, update)

	doc.AddOperation("/status", http.MethodGet, operation(
		"status", tagSystem, "Service health",
		jsonResponse(http.StatusOK, "Service is up", openapi3.NewObjectSchema().
			WithProperty("status", openapi3.NewStringSchema()).
			WithProperty("timestamp", openapi3.NewDateTimeSchema()).
			WithProperty("environment", openapi3.NewStringSchema()).
			WithProperty("uptime", openapi3.NewStringSchema())),
	))

	return doc
}

// operation creates an operation whose responses also list the error
// statuses every route can produce.
func operation(id, tag, summary string, ok openapi3.NewResponsesOption) *openapi3.Operation {
	errSchema := SchemaOf(reflect.TypeOf(errs.HTTPError{}))

	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{tag}
	op.Responses = openapi3.NewResponses(
		ok,
		jsonResponse(http.StatusUnprocessableEntity, "Validation failed", errSchema),
		jsonResponse(http.StatusTooManyRequests, "Rate limit exceeded", errSchema),
		jsonResponse(http.StatusInternalServerError, "Internal server error", errSchema),
	)
	return op
}

func jsonResponse(status int, description string, schema *openapi3.Schema) openapi3.NewResponsesOption {
	return openapi3.WithStatus(status, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchema(schema),
	})
}

func jsonBody(description string, schema *openapi3.Schema) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithDescription(description).
			WithRequired(true).
			WithJSONSchema(schema),
	}
}

// parameters turns the `param` and `query` tagged fields of a request
// struct into path and query parameters.
func parameters(t reflect.Type) openapi3.Parameters {
	var params openapi3.Parameters

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		var p *openapi3.Parameter
		if name := tagName(f, "param"); name != "" {
			p = openapi3.NewPathParameter(name)
		} else if name := tagName(f, "query"); name != "" {
			p = openapi3.NewQueryParameter(name)
		} else {
			continue
		}

		schema, required := fieldSchema(f)
		// Absence is expressed by the parameter being optional, not by null.
		schema.Nullable = false
		if doc := schema.Description; doc != "" {
			p.Description = doc
			schema.Description = ""
		}

		p.Schema = &openapi3.SchemaRef{Value: schema}
		if p.In == openapi3.ParameterInQuery {
			p.Required = required
		}

		params = append(params, &openapi3.ParameterRef{Value: p})
	}

	return params
}

func tagName(f reflect.StructField, key string) string {
	name, _, _ := strings.Cut(f.Tag.Get(key), ",")
	return name
}
