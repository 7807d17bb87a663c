package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrAuthenticationFailed covers every login failure: unknown username,
	// wrong password, inactive or passwordless account. The cause is not
	// disclosed to the caller.
	ErrAuthenticationFailed = errors.New("no active account found with the given credentials")

	// ErrInvalidToken is returned for a bearer or refresh token that is
	// malformed, expired, signed with another key, of the wrong type, or
	// whose subject no longer exists or is inactive.
	ErrInvalidToken = errors.New("token is invalid or expired")

	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrUnknownOperation = errors.New("unknown operation")

	ErrSuperuserPasswordRequired = errors.New("superuser must have a password")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// ValidationError carries field-level failures of a user write.
// Fields maps a field name (e.g. "username", "profile.phone_number") to a
// human-readable message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for fields.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
