// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, password hashing,
// HTTP response writing, HTTP client initialization and UUID generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// CallerCtxKey is the key under which the authenticated caller is stored.
var CallerCtxKey = contextKey("caller")

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller *models.Caller) context.Context {
	return context.WithValue(ctx, CallerCtxKey, caller)
}

// GetCallerFromContext retrieves the authenticated caller from the context.
//
// Returns the caller and an ok flag. ok is false when the request is
// anonymous or the stored value has an unexpected type.
func GetCallerFromContext(ctx context.Context) (*models.Caller, bool) {
	caller, ok := ctx.Value(CallerCtxKey).(*models.Caller)
	if !ok || caller == nil {
		return nil, false
	}
	return caller, true
}
