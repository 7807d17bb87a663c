// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownRole is returned by [ParseRole] for values outside the
// enumerated role set.
var ErrUnknownRole = errors.New("unknown role")

// Role is a coarse-grained privilege label attached to a user.
//
// Roles form a strict total order: admin ⊇ editor ⊇ viewer.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// DefaultRole is assigned to users created without an explicit role.
const DefaultRole = RoleViewer

// Roles lists every valid role from the most to the least privileged.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// Rank returns the privilege rank of the role. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r belongs to the enumerated role set.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

func (r Role) String() string {
	return string(r)
}

// MeetsMinimum reports whether role is at least as privileged as required.
// Equal rank is sufficient. An unknown role never meets any minimum.
func MeetsMinimum(role, required Role) bool {
	if !role.Valid() {
		return false
	}
	return role.Rank() >= required.Rank()
}

// ParseRole converts s into a [Role], returning [ErrUnknownRole] for
// anything outside the enumerated set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}
