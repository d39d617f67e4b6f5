package errs

import "strings"

// FieldError is a single field-level validation problem.
//
// Field is the dotted JSON path of the offending value, e.g. "person.age"
// for an update payload or "age" for a query parameter.
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

// ActionTypeRetry tells the client the request may be retried later.
// Value holds the suggested wait as a duration string (e.g. "1s").
const ActionTypeRetry ActionType = "retry"

// Action is an optional "what the client should do next" hint.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type rendered by the global error handler.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "UNPROCESSABLE_ENTITY").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as-is.
//   - Errors: per-field validation errors.
//   - Action: optional client instruction.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// Only the type is compared, not Code or Status, so errors.Is(err, &HTTPError{})
// answers "did this come from our error layer".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// HasField reports whether a field-level error was recorded for field.
func (e *HTTPError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Unprocessable Entity" -> "UNPROCESSABLE_ENTITY"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
