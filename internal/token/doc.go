// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package token issues and verifies the signed bearer credentials used by
// the HTTP API.
//
// A credential exchange yields a [models.TokenPair]: a short-lived access
// token presented on every protected request and a longer-lived refresh
// token used only to obtain new access tokens. Both are stateless JWTs
// (HS256) carrying the user id as subject and a token_type claim, so one
// kind can never be accepted in place of the other.
//
// Callers depend on the [Issuer] interface; [NewJWTIssuer] is the
// golang-jwt implementation.
package token
