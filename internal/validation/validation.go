// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (lengths,
// ranges, enums, email format) declared in struct tags and
// turns failures into field-level errors the client can act on.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every request type. Validator instances cache
// struct metadata, so one instance for the process is the intended use.
var validate = newValidator()

// Enum is implemented by closed sets of string values. Fields of such a
// type are checked with the `enum` rule, which calls Valid.
type Enum interface {
	Valid() bool
	Values() []string
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("enum", validEnum); err != nil {
		panic(err)
	}
	return v
}

func validEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(Enum)
	return ok && e.Valid()
}

// fieldName reports a struct field by its wire name: the path or query
// parameter name when bound from the URL, the JSON key otherwise.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"param", "query", "json"} {
		if name := tagName(fld, tag); name != "" && name != "-" {
			return name
		}
	}
	return ""
}

func tagName(fld reflect.StructField, key string) string {
	name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
	return name
}

// Struct validates v against its `validate` tags.
func Struct(v interface{}) error {
	return validate.Struct(v)
}
