// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the persistence boundary of the user resource.
//
// Create, update and delete run in one transaction together with the
// profile row and a user_audit_log entry. The actor of an audit entry is
// the caller stored in ctx, if any.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error

	// ExistsByUsername reports whether another user (id != excludeID) owns
	// username. An empty excludeID excludes nothing.
	ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error)

	// ExistsByEmail is the email counterpart of ExistsByUsername.
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
}

// ErrorClassificator decides whether a failed database call is worth
// retrying. The result is only logged; nothing retries.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
