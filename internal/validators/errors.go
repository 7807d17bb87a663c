package validators

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
)

// Messages reported against individual fields.
const (
	MsgRequired         = "this field is required"
	MsgInvalidEmail     = "enter a valid email address"
	MsgInvalidRole      = "invalid role"
	MsgInvalidValue     = "invalid value"
	MsgFillPasswordPair = "please fill password and confirm password"
	MsgPasswordMismatch = "does not match"
	MsgPasswordDigit    = "password must contain at least one digit"
	MsgPasswordLetter   = "password must contain at least one letter"
	MsgPasswordSpecial  = "password must contain at least one special character"
	MsgUsernameTaken    = "username already taken"
	MsgEmailTaken       = "email already taken"
)

// FieldErrors maps a field name to a human-readable message.
// A nil or empty FieldErrors means the input is valid.
type FieldErrors map[string]string

// Add records msg for field. Further distinct messages for the same field
// are appended to the first.
func (e FieldErrors) Add(field, msg string) {
	prev, ok := e[field]
	if !ok {
		e[field] = msg
		return
	}
	if slices.Contains(strings.Split(prev, "; "), msg) {
		return
	}
	e[field] = prev + "; " + msg
}

// Merge copies every entry of other into e.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msg := range other {
		e.Add(field, msg)
	}
}

// Has reports whether field already has a message.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns e as an error, or nil when there is nothing to report.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation failed")
	for i, field := range slices.Sorted(maps.Keys(e)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(e[field])
	}
	return b.String()
}
