package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user row matches the target id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when registering a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// FieldError describes a single violated constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated constraint of a request input.
// Handlers translate it to a 400 response carrying the full details list.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Details[0].Field, e.Details[0].Message)
}

// Add appends a violation for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Details = append(e.Details, FieldError{Field: field, Message: message})
}

// Empty reports whether no constraint was violated.
func (e *ValidationError) Empty() bool { return len(e.Details) == 0 }

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPError pairs an error body with the status code it travels under.
type HTTPError struct {
	StatusCode int
	Message    string
	Details    []FieldError
}

func (e *HTTPError) Error() string { return e.Message }

// NewHTTPError creates an HTTPError without details.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ToErrorResponse converts an HTTPError into its wire shape.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Details: e.Details}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors are
// treated as infrastructure failures and never leak their message.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: "Validation failed", Details: ve.Details}
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, "User already exists")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
