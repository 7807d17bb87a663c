// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// ID is the opaque surrogate identifier assigned at creation (UUIDv7).
	ID string `json:"id"`

	// Username is the globally unique, case-sensitive login name.
	Username string `json:"username"`

	// Email is the globally unique address, stored lower-cased.
	Email string `json:"email"`

	// PasswordHash is the one-way derived credential.
	// It is nil only for accounts explicitly marked passwordless and is
	// never exposed via JSON.
	PasswordHash *string `json:"-"`

	// Role gates which operations the user may perform.
	Role Role `json:"role"`

	// IsActive is false for disabled accounts; they fail authentication.
	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Profile holds optional personal details. It lives and dies with the user.
	Profile *Profile `json:"profile,omitempty"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// HasUsablePassword reports whether the account can authenticate with a
// password at all.
func (u User) HasUsablePassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Profile carries optional personal fields of a [User] (1:1, cascade delete).
type Profile struct {
	UserID      string    `json:"-"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	PhoneNumber *string   `json:"phone_number"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Profile model.
func (p Profile) TableName() string {
	return "profiles"
}

// ProfileInput is the writable part of a [Profile]. Nil fields are left
// untouched on update.
type ProfileInput struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=11"`
}

// CreateUserInput is the payload accepted by the create-user operation.
//
// Password and ConfirmPassword are pointers so that "absent" can be told
// apart from "present but empty".
type CreateUserInput struct {
	Username        string        `json:"username" validate:"required,max=255"`
	Email           string        `json:"email" validate:"required,max=255,email"`
	Role            Role          `json:"role,omitempty" validate:"omitempty,role"`
	IsActive        *bool         `json:"is_active,omitempty"`
	Password        *string       `json:"password,omitempty"`
	ConfirmPassword *string       `json:"confirm_password,omitempty"`
	Profile         *ProfileInput `json:"profile,omitempty"`
}

// UpdateUserInput is the payload accepted by the update-user operation.
// Only non-nil fields are applied (partial update).
type UpdateUserInput struct {
	Username        *string       `json:"username,omitempty" validate:"omitnil,required,max=255"`
	Email           *string       `json:"email,omitempty" validate:"omitnil,required,max=255,email"`
	Role            *Role         `json:"role,omitempty" validate:"omitnil,role"`
	IsActive        *bool         `json:"is_active,omitempty"`
	Password        *string       `json:"password,omitempty"`
	ConfirmPassword *string       `json:"confirm_password,omitempty"`
	Profile         *ProfileInput `json:"profile,omitempty"`
}

// HasPasswordFields reports whether the update touches the password pair.
func (in UpdateUserInput) HasPasswordFields() bool {
	return in.Password != nil || in.ConfirmPassword != nil
}

// Credentials is the username/password pair presented at login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuditAction names the kind of change recorded in [UserAuditEntry].
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// UserAuditEntry records a single mutation of a user record.
// Password material is never part of Changes.
type UserAuditEntry struct {
	ID        string
	UserID    string
	ActorID   *string
	Action    AuditAction
	Changes   map[string]any
	CreatedAt time.Time
}

// UserUpdate is a resolved partial update of a stored user. Nil fields are
// left unchanged. PasswordHash carries an already derived hash.
type UserUpdate struct {
	ID           string
	Username     *string
	Email        *string
	Role         *Role
	IsActive     *bool
	PasswordHash *string
	Profile      *ProfileInput
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Role == nil && u.IsActive == nil &&
		u.PasswordHash == nil && u.Profile == nil
}

// Changes returns the audited view of the update: field name to new value.
// Password material is reported only as a changed flag.
func (u UserUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	if u.Username != nil {
		changes["username"] = *u.Username
	}
	if u.Email != nil {
		changes["email"] = *u.Email
	}
	if u.Role != nil {
		changes["role"] = *u.Role
	}
	if u.IsActive != nil {
		changes["is_active"] = *u.IsActive
	}
	if u.PasswordHash != nil {
		changes["password_changed"] = true
	}
	if p := u.Profile; p != nil {
		if p.FirstName != nil {
			changes["profile.first_name"] = *p.FirstName
		}
		if p.LastName != nil {
			changes["profile.last_name"] = *p.LastName
		}
		if p.PhoneNumber != nil {
			changes["profile.phone_number"] = *p.PhoneNumber
		}
	}
	return changes
}
