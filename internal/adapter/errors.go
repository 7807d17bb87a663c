package adapter

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrInternalServerError = errors.New("internal server error")
	ErrServiceUnavailable  = errors.New("service unavailable")

	ErrNoRefreshToken = errors.New("no refresh token, login first")
	ErrInvalidBaseURL = errors.New("invalid base url")
)

// ValidationError is returned for a 400 response that names the offending
// fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is makes every ValidationError match ErrBadRequest.
func (e *ValidationError) Is(target error) bool {
	return target == ErrBadRequest
}
