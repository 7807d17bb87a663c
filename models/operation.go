// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Operation names a user-resource action that is subject to authorization.
type Operation string

const (
	OperationList           Operation = "list"
	OperationRetrieve       Operation = "retrieve"
	OperationGetCurrentUser Operation = "get-current-user"
	OperationCreate         Operation = "create"
	OperationUpdate         Operation = "update"
	OperationDelete         Operation = "delete"
)

// Caller is the authenticated identity on whose behalf an operation runs.
// A nil *Caller means the request is anonymous.
type Caller struct {
	UserID string
	Role   Role
}
