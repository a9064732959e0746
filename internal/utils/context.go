// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, HTTP response writing,
// HTTP client initialization, JWT token generation and validation,
// and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key under which the access guard stores the
// authenticated [models.Identity].
var IdentityCtxKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}

// IdentityFromContext retrieves the authenticated caller from the context.
//
// Returns ok == false when the value is missing, has an unexpected type
// or carries an empty user id.
//
// Example usage:
//
//	identity, ok := utils.IdentityFromContext(ctx)
//	if !ok {
//	    // handle unauthenticated request
//	}
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(models.Identity)
	if !ok || identity.UserID == "" {
		return models.Identity{}, false
	}
	return identity, true
}
