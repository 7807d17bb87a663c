// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-user-keeper/models"
)

// minimumRoles is the whole access policy of the user resource.
var minimumRoles = map[models.Operation]models.Role{
	models.OperationList:           models.RoleViewer,
	models.OperationRetrieve:       models.RoleViewer,
	models.OperationGetCurrentUser: models.RoleViewer,
	models.OperationCreate:         models.RoleAdmin,
	// gates the whole update, role field included: an editor may change
	// any user's role, their own too
	models.OperationUpdate:         models.RoleEditor,
	models.OperationDelete:         models.RoleAdmin,
}

// MinimumRole returns the least privileged role allowed to perform op.
func MinimumRole(op models.Operation) (models.Role, bool) {
	role, ok := minimumRoles[op]
	return role, ok
}

// Authorize decides whether caller may perform op.
//
// An anonymous caller (nil or without a user id) is rejected with
// ErrUnauthenticated before the role is looked at. A caller below the
// minimum role gets ErrForbidden. An operation missing from the policy
// yields ErrUnknownOperation.
func Authorize(caller *models.Caller, op models.Operation) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}

	required, ok := minimumRoles[op]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	if !models.MeetsMinimum(caller.Role, required) {
		return ErrForbidden
	}

	return nil
}
