// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func validCreateInput() models.CreateUserInput {
	return models.CreateUserInput{
		Username:        "newuser",
		Email:           "new@example.com",
		Role:            models.RoleViewer,
		Password:        ptr("Testpass123!"),
		ConfirmPassword: ptr("Testpass123!"),
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	require.Error(t, err)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestValidate_Dispatch(t *testing.T) {
	v := NewUserValidator()
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		err := v.Validate(ctx, "a string")
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("create value", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, validCreateInput()))
	})

	t.Run("create pointer", func(t *testing.T) {
		in := validCreateInput()
		require.NoError(t, v.Validate(ctx, &in))
	})

	t.Run("update value", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, models.UpdateUserInput{}))
	})

	t.Run("update pointer", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, &models.UpdateUserInput{Email: ptr("x@example.com")}))
	})
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestValidateCreate_FieldSyntax(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *models.CreateUserInput)
		wantField string
		wantMsg   string
	}{
		{"missing username", func(in *models.CreateUserInput) { in.Username = "" }, FieldUsername, MsgRequired},
		{"long username", func(in *models.CreateUserInput) { in.Username = strings.Repeat("u", 256) }, FieldUsername, "ensure this field has no more than 255 characters"},
		{"missing email", func(in *models.CreateUserInput) { in.Email = "" }, FieldEmail, MsgRequired},
		{"bad email", func(in *models.CreateUserInput) { in.Email = "not-an-email" }, FieldEmail, MsgInvalidEmail},
		{"unknown role", func(in *models.CreateUserInput) { in.Role = "superuser" }, FieldRole, MsgInvalidRole},
		{
			"long phone",
			func(in *models.CreateUserInput) { in.Profile = &models.ProfileInput{PhoneNumber: ptr("123456789012")} },
			FieldPhoneNumber,
			"ensure this field has no more than 11 characters",
		},
	}

	v := NewUserValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)

			fe := fieldErrors(t, v.Validate(context.Background(), in))

			assert.Equal(t, tt.wantMsg, fe[tt.wantField])
		})
	}
}

func TestValidateCreate_EmptyRoleAllowed(t *testing.T) {
	in := validCreateInput()
	in.Role = ""

	assert.NoError(t, NewUserValidator().Validate(context.Background(), in))
}

func TestValidateCreate_PasswordPairMandatory(t *testing.T) {
	tests := []struct {
		name     string
		password *string
		confirm  *string
	}{
		{"both absent", nil, nil},
		{"confirm absent", ptr("Testpass123!"), nil},
		{"password absent", nil, ptr("Testpass123!")},
		{"confirm empty", ptr("Testpass123!"), ptr("")},
	}

	v := NewUserValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			in.Password = tt.password
			in.ConfirmPassword = tt.confirm

			fe := fieldErrors(t, v.Validate(context.Background(), in))

			assert.Contains(t, fe[FieldPassword], MsgFillPasswordPair)
			assert.Equal(t, MsgFillPasswordPair, fe[FieldConfirmPassword])
		})
	}
}

func TestValidateCreate_PasswordMismatch(t *testing.T) {
	in := validCreateInput()
	in.ConfirmPassword = ptr("Testpass123?")

	fe := fieldErrors(t, NewUserValidator().Validate(context.Background(), in))

	assert.Equal(t, FieldErrors{FieldConfirmPassword: MsgPasswordMismatch}, fe)
}

func TestValidateCreate_WeakPassword(t *testing.T) {
	in := validCreateInput()
	in.Password = ptr("abc")
	in.ConfirmPassword = ptr("abc")

	fe := fieldErrors(t, NewUserValidator().Validate(context.Background(), in))

	assert.Contains(t, fe[FieldPassword], "at least 8 characters")
	assert.Contains(t, fe[FieldPassword], MsgPasswordDigit)
	assert.Contains(t, fe[FieldPassword], MsgPasswordSpecial)
	assert.NotContains(t, fe[FieldPassword], MsgPasswordLetter)
	assert.NotContains(t, fe, FieldConfirmPassword)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestValidateUpdate_NoPasswordFieldsNeedsNoConfirm(t *testing.T) {
	in := models.UpdateUserInput{
		Username: ptr("renamed"),
		Role:     ptr(models.RoleEditor),
		IsActive: ptr(false),
	}

	assert.NoError(t, NewUserValidator().Validate(context.Background(), in))
}

func TestValidateUpdate_HalfPairFails(t *testing.T) {
	v := NewUserValidator()

	fe := fieldErrors(t, v.Validate(context.Background(), models.UpdateUserInput{Password: ptr("Testpass123!")}))
	assert.Equal(t, MsgFillPasswordPair, fe[FieldPassword])
	assert.Equal(t, MsgFillPasswordPair, fe[FieldConfirmPassword])

	fe = fieldErrors(t, v.Validate(context.Background(), models.UpdateUserInput{ConfirmPassword: ptr("Testpass123!")}))
	assert.Equal(t, MsgFillPasswordPair, fe[FieldConfirmPassword])
}

func TestValidateUpdate_FullPairAccepted(t *testing.T) {
	in := models.UpdateUserInput{Password: ptr("N3w-secret"), ConfirmPassword: ptr("N3w-secret")}

	assert.NoError(t, NewUserValidator().Validate(context.Background(), in))
}

func TestValidateUpdate_BlankFieldsRejected(t *testing.T) {
	in := models.UpdateUserInput{Username: ptr(""), Email: ptr("")}

	fe := fieldErrors(t, NewUserValidator().Validate(context.Background(), in))

	assert.Equal(t, MsgRequired, fe[FieldUsername])
	assert.Equal(t, MsgRequired, fe[FieldEmail])
}

func TestValidateUpdate_InvalidRole(t *testing.T) {
	in := models.UpdateUserInput{Role: ptr(models.Role("owner"))}

	fe := fieldErrors(t, NewUserValidator().Validate(context.Background(), in))

	assert.Equal(t, MsgInvalidRole, fe[FieldRole])
}

// ---------------------------------------------------------------------------
// Scoping
// ---------------------------------------------------------------------------

func TestValidate_ScopedFields(t *testing.T) {
	in := validCreateInput()
	in.Username = ""
	in.Email = "bad"

	err := NewUserValidator().Validate(context.Background(), in, FieldEmail)

	fe := fieldErrors(t, err)
	assert.Equal(t, FieldErrors{FieldEmail: MsgInvalidEmail}, fe)
}

func TestValidate_ScopedToValidField(t *testing.T) {
	in := validCreateInput()
	in.Username = ""

	assert.NoError(t, NewUserValidator().Validate(context.Background(), in, FieldEmail))
}
