// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates access tokens from refresh tokens so that one
// cannot be presented in place of the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the claim set embedded in every issued JWT.
//
// It embeds [jwt.RegisteredClaims] for the standard claims (sub, iat, exp,
// iss, jti) and adds the token type discriminator.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is either [TokenTypeAccess] or [TokenTypeRefresh].
	TokenType TokenType `json:"token_type"`
}

// TokenPair is the result of a successful credential exchange.
type TokenPair struct {
	// Access is the short-lived signed credential used as a bearer token.
	Access string `json:"access"`

	// Refresh is the longer-lived signed credential used to obtain new
	// access tokens without re-entering a password.
	Refresh string `json:"refresh"`
}

// RefreshRequest is the body accepted by the token refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}
