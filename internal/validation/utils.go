package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/person-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Validatable is implemented by request payload types that know how to
// validate themselves, usually by calling Struct on the receiver.
type Validatable interface {
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
//  1. c.Bind fills payload from path params, query params (GET/DELETE/HEAD)
//     and the body.
//  2. payload.Validate applies the declared constraints.
//
// Binding and constraint failures both come back as 422 *errs.HTTPError.
// A body sent without Content-Type is read as JSON; any other unsupported
// Content-Type keeps echo's 415.
func BindAndValidate(c echo.Context, payload Validatable) error {
	req := c.Request()
	if req.ContentLength != 0 && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	if err := c.Bind(payload); err != nil {
		return bindError(c, payload, err)
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewUnprocessableEntityError(msg, true, fieldErrors)
	}

	return nil
}

// bindError converts echo's binding failures into a 422 with as much field
// detail as the decoder reports.
func bindError(c echo.Context, payload interface{}, err error) error {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) && echoErr.Code != http.StatusBadRequest {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		return errs.NewUnprocessableEntityError("Validation failed: "+humanizeField(field), true, []errs.FieldError{{
			Field: field,
			Error: fmt.Sprintf("must be of type %s", jsonType(typeErr.Type)),
		}})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.NewUnprocessableEntityError(
			fmt.Sprintf("Malformed JSON body at offset %d", syntaxErr.Offset), true, nil)
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		field := paramField(c, payload, numErr.Num)
		if field == "" {
			return errs.NewUnprocessableEntityError(
				fmt.Sprintf("Value %q is not a valid %s", numErr.Num, parseTarget(numErr)), true, nil)
		}

		msg := "must be a valid " + parseTarget(numErr)
		if errors.Is(numErr.Err, strconv.ErrRange) {
			msg = "is out of range"
		}
		return errs.NewUnprocessableEntityError("Validation failed: "+humanizeField(field), true, []errs.FieldError{{
			Field: field,
			Error: msg,
		}})
	}

	if echoErr != nil {
		if msg, ok := echoErr.Message.(string); ok {
			return errs.NewUnprocessableEntityError(msg, true, nil)
		}
	}

	return errs.NewUnprocessableEntityError("Request could not be parsed", true, nil)
}

// paramField returns the path or query parameter of payload whose raw
// value is value. Echo reports the rejected value but not its name.
func paramField(c echo.Context, payload interface{}, value string) string {
	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := tagName(f, "param"); name != "" && c.Param(name) == value {
			return name
		}
		if name := tagName(f, "query"); name != "" && c.QueryParam(name) == value {
			return name
		}
	}
	return ""
}

// parseTarget names the type strconv was parsing into.
func parseTarget(err *strconv.NumError) string {
	switch err.Func {
	case "ParseBool":
		return "boolean"
	case "ParseFloat":
		return "number"
	}
	return "integer"
}

// jsonType names a Go type the way a JSON client thinks about it.
func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Ptr:
		return jsonType(t.Elem())
	}
	return t.String()
}

// extractValidationError turns a Validate() error into a message and a list
// of field errors.
func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed: " + err.Error(), nil
	}

	for _, err := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldPath(err),
			Error: message(err),
		})
	}

	return summarize(fieldErrors), fieldErrors
}

// fieldPath drops the root struct name from the namespace:
// "UpdatePersonRequest.person.first_name" -> "person.first_name".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// message renders one validator failure.
func message(err validator.FieldError) string {
	isString := err.Kind() == reflect.String

	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if isString {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())

	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())

	case "lt":
		return fmt.Sprintf("must be less than %s", err.Param())

	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "email":
		return "must be a valid email address"

	case "enum":
		if e, ok := err.Value().(Enum); ok {
			return "must be one of: " + strings.Join(e.Values(), ", ")
		}
		return "must be one of the allowed values"

	case "numeric":
		return "must be numeric"
	}

	if err.Param() != "" {
		return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
	}
	return fmt.Sprintf("failed %s", err.Tag())
}

// summarize builds the top-level message, e.g.
// "Validation failed: Person First Name, Person Age".
func summarize(fieldErrors []errs.FieldError) string {
	if len(fieldErrors) == 0 {
		return "Validation failed"
	}

	names := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		names = append(names, humanizeField(fe.Field))
	}
	return "Validation failed: " + strings.Join(names, ", ")
}

// humanizeField turns a dotted snake_case path into title case words.
func humanizeField(field string) string {
	if field == "" {
		return ""
	}
	words := strings.NewReplacer(".", " ", "_", " ").Replace(field)
	return cases.Title(language.English).String(words)
}
