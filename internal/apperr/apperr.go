// Package apperr defines the closed set of application error kinds.
// Everything below the handler layer raises one of these; the handler
// boundary maps them to HTTP responses exactly once.
package apperr

import "net/http"

// Kind tags an application error.
type Kind int

const (
	// KindInternal is the catch-all for store and unexpected failures.
	KindInternal Kind = iota
	// KindValidation is a field-level request validation failure.
	KindValidation
	// KindAuthRequired covers missing identity and insufficient role alike.
	KindAuthRequired
	// KindNotFound covers true absence and ownership mismatch alike.
	KindNotFound
	// KindConflict covers duplicate email and duplicate review.
	KindConflict
)

// Error carries a kind and a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	// Err is the underlying cause, logged server-side only.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the kind to its HTTP status code. Conflict is 400, not 409,
// and authorization denial is 401, not 403; both follow the API contract.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a field-validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// AuthRequired builds the uniform authentication error.
func AuthRequired() *Error {
	return &Error{Kind: KindAuthRequired, Message: "Authentication required"}
}

// Unauthorized builds a 401 with a caller-facing message, e.g. the
// credential failure on login.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuthRequired, Message: message}
}

// NotFound builds a not-found error with a resource-specific message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a duplicate-resource error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected failure. The message shown to callers is
// always generic; err is kept for logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}
