package adapter

import (
	"errors"
	"fmt"
)

// Sentinels matched by *APIError according to the response status.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
)

// APIError is a non-2xx response of the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string

	kind error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the sentinel of the status class, or nil for statuses
// without one.
func (e *APIError) Unwrap() error {
	return e.kind
}
