package openapi

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/person-api/internal/validation"
	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaOf derives an OpenAPI schema from a Go type.
//
// Struct fields are named by their json tag, constraints are read from the
// validate tag (required, min, max, gt, gte, lt, lte, oneof, enum, email) and
// the doc/example tags become description and example. Pointers and
// slices are nullable because they encode as null when unset. Embedded
// structs are flattened the way encoding/json flattens them.
func SchemaOf(t reflect.Type) *openapi3.Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return SchemaOf(t.Elem()).WithNullable()

	case reflect.Struct:
		return structSchema(t)

	case reflect.Slice, reflect.Array:
		s := openapi3.NewArraySchema().WithItems(SchemaOf(t.Elem()))
		if t.Kind() == reflect.Slice {
			s = s.WithNullable()
		}
		return s

	case reflect.Map:
		return openapi3.NewObjectSchema().WithAdditionalProperties(SchemaOf(t.Elem()))

	case reflect.String:
		return openapi3.NewStringSchema()

	case reflect.Bool:
		return openapi3.NewBoolSchema()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema()

	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	}

	return openapi3.NewSchema()
}

func structSchema(t reflect.Type) *openapi3.Schema {
	s := openapi3.NewObjectSchema()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")

		if f.Anonymous && name == "" {
			embedded := f.Type
			if embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				inner := structSchema(embedded)
				for prop, ref := range inner.Properties {
					s.WithPropertyRef(prop, ref)
				}
				s.Required = append(s.Required, inner.Required...)
				continue
			}
		}

		if !f.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}

		prop, required := fieldSchema(f)
		s.WithProperty(name, prop)
		if required {
			s.Required = append(s.Required, name)
		}
	}

	return s
}

// fieldSchema builds the schema of one struct field and reports whether
// the field is required.
func fieldSchema(f reflect.StructField) (*openapi3.Schema, bool) {
	s := SchemaOf(f.Type)
	required := applyRules(s, f.Type, f.Tag.Get("validate"))

	if doc := f.Tag.Get("doc"); doc != "" {
		s.Description = doc
	}
	if example, ok := f.Tag.Lookup("example"); ok {
		s.Example = exampleValue(s, example)
	}

	return s, required
}

// applyRules copies validator rules of a field of type t into s and reports
// whether the field is required.
func applyRules(s *openapi3.Schema, t reflect.Type, tag string) bool {
	if tag == "" {
		return false
	}

	isString := s.Type.Is(openapi3.TypeString)
	isInteger := s.Type.Is(openapi3.TypeInteger)
	required := false

	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(rule, "=")

		switch key {
		case "required":
			required = true

		case "email":
			s.Format = "email"

		case "oneof":
			for _, v := range strings.Fields(param) {
				s.Enum = append(s.Enum, v)
			}

		case "enum":
			for _, v := range enumValues(t) {
				s.Enum = append(s.Enum, v)
			}

		case "min", "max":
			n, err := strconv.ParseFloat(param, 64)
			if err != nil {
				continue
			}
			switch {
			case isString && key == "min":
				s.WithMinLength(int64(n))
			case isString && key == "max":
				s.WithMaxLength(int64(n))
			case key == "min":
				s.WithMin(n)
			default:
				s.WithMax(n)
			}

		case "gt", "gte", "lt", "lte":
			n, err := strconv.ParseFloat(param, 64)
			if err != nil {
				continue
			}
			// Exclusive bounds are only expressible for integers, where
			// gt=n is the same as min n+1.
			switch {
			case key == "gte":
				s.WithMin(n)
			case key == "lte":
				s.WithMax(n)
			case key == "gt" && isInteger:
				s.WithMin(n + 1)
			case key == "lt" && isInteger:
				s.WithMax(n - 1)
			}
		}
	}

	return required
}

// enumValues lists the values of a validation.Enum type, or nil.
func enumValues(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if e, ok := reflect.Zero(t).Interface().(validation.Enum); ok {
		return e.Values()
	}
	return nil
}

// exampleValue converts an example tag into a value of the schema's type.
func exampleValue(s *openapi3.Schema, raw string) interface{} {
	switch {
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	case s.Type.Is(openapi3.TypeBoolean):
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}
