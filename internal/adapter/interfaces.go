// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a client for the go-user-keeper HTTP API.
//
// [APIClient] hides the REST details: request encoding, the bearer header
// and the response envelopes. Error responses are mapped by mapHTTPError to
// the sentinel values in errors.go (e.g. [ErrForbidden] for 403) or to a
// [*ValidationError] carrying the per-field messages, so callers can use
// [errors.Is] and [errors.As].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// APIClient talks to the user API on behalf of one account. Tokens obtained
// by Login are kept and attached to later calls.
type APIClient interface {
	// SetTokens replaces the stored token pair.
	SetTokens(tokens models.TokenPair)

	// Tokens returns the stored token pair; both fields are empty before
	// Login.
	Tokens() models.TokenPair

	// Login exchanges credentials for a token pair and stores it.
	Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error)

	// Refresh trades the stored refresh token for a new access token.
	// Returns ErrNoRefreshToken before Login.
	Refresh(ctx context.Context) (models.TokenPair, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	Me(ctx context.Context) (models.User, error)
	CreateUser(ctx context.Context, input models.CreateUserInput) (models.User, error)
	UpdateUser(ctx context.Context, id string, input models.UpdateUserInput) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}
