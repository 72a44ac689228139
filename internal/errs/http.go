package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "name", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error shape written to API clients.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "PLAYER_NOT_FOUND").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as is.
//   - Errors: per-field validation errors.
//   - Action: optional client instruction.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and status are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
