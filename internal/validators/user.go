package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-playground/validator/v10"
)

// Field names reported in [FieldErrors] and accepted for scoping.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldPhoneNumber     = "profile.phone_number"
)

// UserValidator implements the Validator interface for the user write
// payloads: models.CreateUserInput and models.UpdateUserInput.
//
// Field syntax is checked with go-playground/validator using the struct
// tags on the input models; the password pair and strength rules are
// applied on top. When field names are passed to Validate, only errors for
// those fields are reported.
type UserValidator struct {
	validate *validator.Validate
}

// NewUserValidator constructs a UserValidator with the custom "role" tag
// registered and JSON names used for field keys.
func NewUserValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})

	return &UserValidator{validate: v}
}

// Validate dispatches validation on the dynamic type of obj. Both value and
// pointer forms are accepted.
//
// Returns ErrUnsupportedType for any other type, a FieldErrors when the
// input is invalid, nil otherwise.
func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var errs FieldErrors

	switch value := obj.(type) {
	case models.CreateUserInput:
		errs = v.validateCreate(value)
	case *models.CreateUserInput:
		errs = v.validateCreate(*value)
	case models.UpdateUserInput:
		errs = v.validateUpdate(value)
	case *models.UpdateUserInput:
		errs = v.validateUpdate(*value)
	default:
		return ErrUnsupportedType
	}

	return scope(errs, fields).Err()
}

func (v *UserValidator) validateCreate(in models.CreateUserInput) FieldErrors {
	errs := v.structErrors(in)

	// the pair is mandatory on create
	errs.Merge(CheckPasswordPair(in.Password, in.ConfirmPassword))
	if in.Password != nil && *in.Password != "" {
		errs.Merge(CheckPasswordStrength(*in.Password))
	}

	return errs
}

func (v *UserValidator) validateUpdate(in models.UpdateUserInput) FieldErrors {
	errs := v.structErrors(in)

	if in.HasPasswordFields() {
		errs.Merge(CheckPasswordPair(in.Password, in.ConfirmPassword))
		if in.Password != nil && *in.Password != "" {
			errs.Merge(CheckPasswordStrength(*in.Password))
		}
	}

	return errs
}

func (v *UserValidator) structErrors(in any) FieldErrors {
	errs := FieldErrors{}

	err := v.validate.Struct(in)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("non_field_errors", err.Error())
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fieldKey(fe), message(fe))
	}

	return errs
}

// fieldKey drops the top-level struct name from the namespace so nested
// fields read as "profile.phone_number".
func fieldKey(fe validator.FieldError) string {
	_, key, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return key
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "email":
		return MsgInvalidEmail
	case "role":
		return MsgInvalidRole
	default:
		return MsgInvalidValue
	}
}

func scope(errs FieldErrors, fields []string) FieldErrors {
	if len(fields) == 0 || len(errs) == 0 {
		return errs
	}

	scoped := FieldErrors{}
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			scoped[f] = msg
		}
	}
	return scoped
}
