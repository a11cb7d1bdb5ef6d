package errors

import "fmt"

// HTTPError carries an HTTP status code alongside a user-facing message.
// Delivery layers translate domain errors into these via mapError.
type HTTPError struct {
	StatusCode int
	Message    string
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Common HTTP errors.
var (
	ErrBadRequest          = NewHTTPError(400, "bad request")
	ErrUnauthorized        = NewHTTPError(401, "unauthorized")
	ErrForbidden           = NewHTTPError(403, "forbidden")
	ErrNotFound            = NewHTTPError(404, "not found")
	ErrInternalServerError = NewHTTPError(500, "internal server error")
)
