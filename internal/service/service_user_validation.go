package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/validators"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/google/uuid"
)

// UserValidationService decorates a UserService with input validation:
// field syntax, the password pair and strength rules, and uniqueness of
// username and email.
//
// The uniqueness lookup is a convenience for a readable error. The unique
// constraints in the database remain authoritative; their violations are
// reported as the same field errors.
type UserValidationService struct {
	inner          UserService
	validator      validators.Validator
	userRepository store.UserRepository
}

func NewUserValidationService(userRepository store.UserRepository) UserServiceWrapper {
	return &UserValidationService{
		validator:      validators.NewUserValidator(),
		userRepository: userRepository,
	}
}

func (v *UserValidationService) Wrap(wrapped UserService) UserService {
	v.inner = wrapped
	return v
}

func (v *UserValidationService) List(ctx context.Context, caller *models.Caller) ([]models.User, error) {
	return v.inner.List(ctx, caller)
}

func (v *UserValidationService) Get(ctx context.Context, caller *models.Caller, id string) (models.User, error) {
	if err := Authorize(caller, models.OperationRetrieve); err != nil {
		return models.User{}, err
	}

	id, err := canonicalUserID(id)
	if err != nil {
		return models.User{}, err
	}

	return v.inner.Get(ctx, caller, id)
}

func (v *UserValidationService) Me(ctx context.Context, caller *models.Caller) (models.User, error) {
	return v.inner.Me(ctx, caller)
}

func (v *UserValidationService) Delete(ctx context.Context, caller *models.Caller, id string) error {
	if err := Authorize(caller, models.OperationDelete); err != nil {
		return err
	}

	id, err := canonicalUserID(id)
	if err != nil {
		return err
	}

	return v.inner.Delete(ctx, caller, id)
}

func (v *UserValidationService) Create(ctx context.Context, caller *models.Caller, input models.CreateUserInput) (models.User, error) {
	// a caller without permission learns nothing about the payload
	if err := Authorize(caller, models.OperationCreate); err != nil {
		return models.User{}, err
	}

	if err := v.validate(ctx, input, &input.Username, &input.Email, ""); err != nil {
		return models.User{}, err
	}

	user, err := v.inner.Create(ctx, caller, input)
	return user, uniqueViolation(err)
}

func (v *UserValidationService) Update(ctx context.Context, caller *models.Caller, id string, input models.UpdateUserInput) (models.User, error) {
	if err := Authorize(caller, models.OperationUpdate); err != nil {
		return models.User{}, err
	}

	id, err := canonicalUserID(id)
	if err != nil {
		return models.User{}, err
	}

	if err := v.validate(ctx, input, input.Username, input.Email, id); err != nil {
		return models.User{}, err
	}

	user, err := v.inner.Update(ctx, caller, id, input)
	return user, uniqueViolation(err)
}

// EnsureSuperuser checks field syntax and password rules only. An existing
// username is not an error here.
func (v *UserValidationService) EnsureSuperuser(ctx context.Context, input models.CreateUserInput) (models.User, bool, error) {
	if err := v.validate(ctx, input, nil, nil, ""); err != nil {
		return models.User{}, false, err
	}

	user, created, err := v.inner.EnsureSuperuser(ctx, input)
	return user, created, uniqueViolation(err)
}

// validate runs the syntax rules on input and, for the non-nil username and
// email, the uniqueness lookup excluding excludeID.
func (v *UserValidationService) validate(ctx context.Context, input any, username, email *string, excludeID string) error {
	log := logger.FromContext(ctx).With().Str("func", "*UserValidationService.validate").Logger()

	fieldErrs := validators.FieldErrors{}

	if err := v.validator.Validate(ctx, input); err != nil {
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("error during user validation: %w", err)
		}
	}

	if username != nil && *username != "" && !fieldErrs.Has(validators.FieldUsername) {
		taken, err := v.userRepository.ExistsByUsername(ctx, *username, excludeID)
		if err != nil {
			log.Err(err).Msg("error checking username uniqueness")
			return fmt.Errorf("error checking username uniqueness: %w", err)
		}
		if taken {
			fieldErrs.Add(validators.FieldUsername, validators.MsgUsernameTaken)
		}
	}

	if email != nil && *email != "" && !fieldErrs.Has(validators.FieldEmail) {
		taken, err := v.userRepository.ExistsByEmail(ctx, NormalizeEmail(*email), excludeID)
		if err != nil {
			log.Err(err).Msg("error checking email uniqueness")
			return fmt.Errorf("error checking email uniqueness: %w", err)
		}
		if taken {
			fieldErrs.Add(validators.FieldEmail, validators.MsgEmailTaken)
		}
	}

	if len(fieldErrs) > 0 {
		log.Debug().Any("fields", fieldErrs).Msg("user input rejected")
		return NewValidationError(fieldErrs)
	}

	return nil
}

// canonicalUserID returns id in the hyphenated lower-case UUID form. User
// ids are UUIDs, so anything that does not parse names no user and is
// reported as store.ErrNoUserWasFound without touching the store.
func canonicalUserID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", store.ErrNoUserWasFound, id)
	}
	return parsed.String(), nil
}

// uniqueViolation turns a unique constraint violation that slipped past the
// lookup into the matching field error. Other errors pass through.
func uniqueViolation(err error) error {
	switch {
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return NewValidationError(map[string]string{validators.FieldUsername: validators.MsgUsernameTaken})
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return NewValidationError(map[string]string{validators.FieldEmail: validators.MsgEmailTaken})
	default:
		return err
	}
}
