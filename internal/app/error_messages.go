// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-user-keeper server handlers, middleware and API client.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgValidationFailed is the "error" value of every field-level
	// validation response; the details are in "fields".
	MsgValidationFailed = "validation failed"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgMethodNotAllowed is returned when the path exists but does not
	// accept the request method.
	MsgMethodNotAllowed = "method not allowed"

	// MsgNotFound is returned for unknown paths.
	MsgNotFound = "not found"

	// MsgServiceUnavailable is the health-check body when a dependency
	// does not answer.
	MsgServiceUnavailable = "service unavailable"

	// MsgHealthy is the health-check status when every dependency answers.
	MsgHealthy = "ok"
)
