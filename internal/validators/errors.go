package validators

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation      = errors.New("validation failed")
	ErrUnsupportedType = errors.New("unsupported type for validation")
)

// ValidationError reports rejected input. Fields maps a JSON field name to
// the reason it was rejected.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a *ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+" "+e.Fields[field])
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
