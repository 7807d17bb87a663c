// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// userService is the concrete implementation of UserService. It authorizes
// each call, normalizes input (lower-cased email, derived password hash) and
// delegates persistence to the UserRepository.
//
// Input is expected to be validated already; see UserValidationService.
type userService struct {
	userRepository store.UserRepository
	hashKey        string
	logger         *logger.Logger
}

func NewUserService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) UserService {
	logger.Debug().Msg("creating user service")
	return &userService{
		userRepository: userRepository,
		hashKey:        cfg.PasswordHashKey,
		logger:         logger,
	}
}

func (s *userService) List(ctx context.Context, caller *models.Caller) ([]models.User, error) {
	if err := Authorize(caller, models.OperationList); err != nil {
		return nil, err
	}

	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userService.List").Msg("error listing users")
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	return users, nil
}

func (s *userService) Get(ctx context.Context, caller *models.Caller, id string) (models.User, error) {
	if err := Authorize(caller, models.OperationRetrieve); err != nil {
		return models.User{}, err
	}

	return s.find(ctx, id)
}

// Me returns the caller's own record.
func (s *userService) Me(ctx context.Context, caller *models.Caller) (models.User, error) {
	if err := Authorize(caller, models.OperationGetCurrentUser); err != nil {
		return models.User{}, err
	}

	return s.find(ctx, caller.UserID)
}

func (s *userService) find(ctx context.Context, id string) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*userService.find").Str("user_id", id).Msg("error finding user")
		}
		return models.User{}, fmt.Errorf("error finding user: %w", err)
	}

	return user, nil
}

// Create stores a new user. Role defaults to viewer and is_active to true.
func (s *userService) Create(ctx context.Context, caller *models.Caller, input models.CreateUserInput) (models.User, error) {
	if err := Authorize(caller, models.OperationCreate); err != nil {
		return models.User{}, err
	}

	return s.create(ctx, input)
}

func (s *userService) create(ctx context.Context, input models.CreateUserInput) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*userService.create").Logger()

	user := models.User{
		Username: input.Username,
		Email:    NormalizeEmail(input.Email),
		Role:     input.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Profile != nil {
		user.Profile = &models.Profile{
			FirstName:   input.Profile.FirstName,
			LastName:    input.Profile.LastName,
			PhoneNumber: input.Profile.PhoneNumber,
		}
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password, s.hashKey)
		if err != nil {
			log.Err(err).Msg("error hashing password")
			return models.User{}, err
		}
		user.PasswordHash = &hash
	}

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("user created")
	return created, nil
}

// Update applies the non-nil fields of input to user id. An input with no
// fields returns the stored user unchanged.
func (s *userService) Update(ctx context.Context, caller *models.Caller, id string, input models.UpdateUserInput) (models.User, error) {
	if err := Authorize(caller, models.OperationUpdate); err != nil {
		return models.User{}, err
	}

	log := logger.FromContext(ctx).With().Str("func", "*userService.Update").Str("user_id", id).Logger()

	update := models.UserUpdate{
		ID:       id,
		Username: input.Username,
		Role:     input.Role,
		IsActive: input.IsActive,
		Profile:  input.Profile,
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		update.Email = &email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password, s.hashKey)
		if err != nil {
			log.Err(err).Msg("error hashing password")
			return models.User{}, err
		}
		update.PasswordHash = &hash
	}

	if update.IsEmpty() {
		return s.find(ctx, id)
	}

	updated, err := s.userRepository.UpdateUser(ctx, update)
	if err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			log.Err(err).Msg("user update ended with error")
		}
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	log.Info().Any("changes", update.Changes()).Msg("user updated")
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, caller *models.Caller, id string) error {
	if err := Authorize(caller, models.OperationDelete); err != nil {
		return err
	}

	log := logger.FromContext(ctx).With().Str("func", "*userService.Delete").Str("user_id", id).Logger()

	if err := s.userRepository.DeleteUser(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNoUserWasFound) {
			log.Err(err).Msg("user deletion ended with error")
		}
		return fmt.Errorf("user deletion ended with error: %w", err)
	}

	log.Info().Msg("user deleted")
	return nil
}

// EnsureSuperuser creates an admin from input if no user has its username.
// Role and is_active of input are overridden.
func (s *userService) EnsureSuperuser(ctx context.Context, input models.CreateUserInput) (models.User, bool, error) {
	log := logger.FromContext(ctx).With().Str("func", "*userService.EnsureSuperuser").Logger()

	existing, err := s.userRepository.FindUserByUsername(ctx, input.Username)
	if err == nil {
		log.Debug().Str("user_id", existing.ID).Msg("superuser already exists")
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, false, fmt.Errorf("error looking up superuser: %w", err)
	}

	if input.Password == nil || *input.Password == "" {
		return models.User{}, false, ErrSuperuserPasswordRequired
	}

	active := true
	input.Role = models.RoleAdmin
	input.IsActive = &active

	created, err := s.create(ctx, input)
	if err != nil {
		return models.User{}, false, err
	}

	return created, true, nil
}

// NormalizeEmail lower-cases email and trims surrounding spaces. Emails are
// compared and stored in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
