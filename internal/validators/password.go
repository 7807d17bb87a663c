package validators

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// CheckPasswordPair applies the confirmation rule to a password pair.
//
// A missing or empty half reports MsgFillPasswordPair on both fields;
// differing values report MsgPasswordMismatch on confirm_password.
// Callers decide whether an entirely absent pair is acceptable.
func CheckPasswordPair(password, confirm *string) FieldErrors {
	errs := FieldErrors{}

	if password == nil || confirm == nil || *password == "" || *confirm == "" {
		errs.Add(FieldPassword, MsgFillPasswordPair)
		errs.Add(FieldConfirmPassword, MsgFillPasswordPair)
		return errs
	}

	if *password != *confirm {
		errs.Add(FieldConfirmPassword, MsgPasswordMismatch)
	}

	return errs
}

// CheckPasswordStrength reports every strength rule password breaks,
// all against the password field.
func CheckPasswordStrength(password string) FieldErrors {
	errs := FieldErrors{}

	var hasDigit, hasLetter, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs.Add(FieldPassword, fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength))
	}
	if !hasDigit {
		errs.Add(FieldPassword, MsgPasswordDigit)
	}
	if !hasLetter {
		errs.Add(FieldPassword, MsgPasswordLetter)
	}
	if !hasSpecial {
		errs.Add(FieldPassword, MsgPasswordSpecial)
	}

	return errs
}
