// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/mock"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	adminCaller  = &models.Caller{UserID: "admin-id", Role: models.RoleAdmin}
	editorCaller = &models.Caller{UserID: "editor-id", Role: models.RoleEditor}
	viewerCaller = &models.Caller{UserID: "viewer-id", Role: models.RoleViewer}
)

func ptr[T any](v T) *T { return &v }

func newTestUserSvc(t *testing.T) (UserService, *mock.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	return NewUserService(repo, config.App{PasswordHashKey: testHashKey}, logger.Nop()), repo
}

// ─────────────────────────────────────────────
// Read operations
// ─────────────────────────────────────────────

func TestUserService_List_ViewerAllowed(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	users := []models.User{{ID: "1"}, {ID: "2"}}
	repo.EXPECT().ListUsers(gomock.Any()).Return(users, nil)

	got, err := svc.List(context.Background(), viewerCaller)

	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestUserService_List_Anonymous(t *testing.T) {
	svc, _ := newTestUserSvc(t)

	_, err := svc.List(context.Background(), nil)

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByID(gomock.Any(), "missing").Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Get(context.Background(), viewerCaller, "missing")

	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestUserService_Me_UsesCallerID(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByID(gomock.Any(), "viewer-id").Return(models.User{ID: "viewer-id"}, nil)

	got, err := svc.Me(context.Background(), viewerCaller)

	require.NoError(t, err)
	assert.Equal(t, "viewer-id", got.ID)
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestUserService_Create_NormalizesAndHashes(t *testing.T) {
	// Arrange
	svc, repo := newTestUserSvc(t)
	input := models.CreateUserInput{
		Username:        "NewUser",
		Email:           " New@Example.COM ",
		Password:        ptr(testPassword),
		ConfirmPassword: ptr(testPassword),
		Profile:         &models.ProfileInput{FirstName: ptr("New")},
	}

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "NewUser", u.Username, "username keeps its case")
			assert.Equal(t, "new@example.com", u.Email)
			assert.Equal(t, models.RoleViewer, u.Role)
			assert.True(t, u.IsActive)
			require.NotNil(t, u.PasswordHash)
			assert.NotEqual(t, testPassword, *u.PasswordHash)
			assert.True(t, utils.CheckPassword(*u.PasswordHash, testPassword, testHashKey))
			require.NotNil(t, u.Profile)
			assert.Equal(t, "New", *u.Profile.FirstName)
			u.ID = "new-id"
			return u, nil
		},
	)

	// Act
	created, err := svc.Create(context.Background(), adminCaller, input)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
}

func TestUserService_Create_ExplicitRoleAndInactive(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, models.RoleEditor, u.Role)
			assert.False(t, u.IsActive)
			return u, nil
		},
	)

	_, err := svc.Create(context.Background(), adminCaller, models.CreateUserInput{
		Username: "e", Email: "e@example.com", Role: models.RoleEditor, IsActive: ptr(false),
		Password: ptr(testPassword), ConfirmPassword: ptr(testPassword),
	})

	require.NoError(t, err)
}

func TestUserService_Create_ForbiddenBelowAdmin(t *testing.T) {
	svc, _ := newTestUserSvc(t)

	for _, caller := range []*models.Caller{viewerCaller, editorCaller} {
		_, err := svc.Create(context.Background(), caller, models.CreateUserInput{Username: "x"})
		assert.ErrorIs(t, err, ErrForbidden, caller.Role)
	}
}

// ─────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────

func TestUserService_Update_BuildsPartialUpdate(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.UserUpdate) (models.User, error) {
			assert.Equal(t, "target", u.ID)
			assert.Equal(t, "mixed@example.com", *u.Email)
			assert.Nil(t, u.Username)
			assert.Nil(t, u.PasswordHash)
			assert.Equal(t, models.RoleAdmin, *u.Role)
			return models.User{ID: "target", Email: *u.Email, Role: *u.Role}, nil
		},
	)

	got, err := svc.Update(context.Background(), editorCaller, "target", models.UpdateUserInput{
		Email: ptr("Mixed@Example.com"),
		Role:  ptr(models.RoleAdmin),
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestUserService_Update_HashesNewPassword(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.UserUpdate) (models.User, error) {
			require.NotNil(t, u.PasswordHash)
			assert.True(t, utils.CheckPassword(*u.PasswordHash, "N3w-secret", testHashKey))
			assert.Equal(t, true, u.Changes()["password_changed"])
			return models.User{ID: u.ID}, nil
		},
	)

	_, err := svc.Update(context.Background(), adminCaller, "target", models.UpdateUserInput{
		Password: ptr("N3w-secret"), ConfirmPassword: ptr("N3w-secret"),
	})

	require.NoError(t, err)
}

func TestUserService_Update_EmptyReturnsCurrent(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByID(gomock.Any(), "target").Return(models.User{ID: "target"}, nil)

	got, err := svc.Update(context.Background(), editorCaller, "target", models.UpdateUserInput{})

	require.NoError(t, err)
	assert.Equal(t, "target", got.ID)
}

func TestUserService_Update_ViewerForbidden(t *testing.T) {
	svc, _ := newTestUserSvc(t)

	_, err := svc.Update(context.Background(), viewerCaller, "target", models.UpdateUserInput{Username: ptr("x")})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Update(context.Background(), adminCaller, "missing", models.UpdateUserInput{IsActive: ptr(false)})

	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ─────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────

func TestUserService_Delete(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		svc, repo := newTestUserSvc(t)
		repo.EXPECT().DeleteUser(gomock.Any(), "target").Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), adminCaller, "target"))
	})

	t.Run("editor forbidden", func(t *testing.T) {
		svc, _ := newTestUserSvc(t)

		assert.ErrorIs(t, svc.Delete(context.Background(), editorCaller, "target"), ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newTestUserSvc(t)
		repo.EXPECT().DeleteUser(gomock.Any(), "missing").Return(store.ErrNoUserWasFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), adminCaller, "missing"), store.ErrNoUserWasFound)
	})
}

// ─────────────────────────────────────────────
// EnsureSuperuser
// ─────────────────────────────────────────────

func TestUserService_EnsureSuperuser_Creates(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByUsername(gomock.Any(), "root").Return(models.User{}, store.ErrNoUserWasFound)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, models.RoleAdmin, u.Role)
			assert.True(t, u.IsActive)
			return u, nil
		},
	)

	_, created, err := svc.EnsureSuperuser(context.Background(), models.CreateUserInput{
		Username: "root", Email: "root@example.com", Role: models.RoleViewer, Password: ptr(testPassword),
	})

	require.NoError(t, err)
	assert.True(t, created)
}

func TestUserService_EnsureSuperuser_Idempotent(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByUsername(gomock.Any(), "root").Return(models.User{ID: "root-id"}, nil)

	user, created, err := svc.EnsureSuperuser(context.Background(), models.CreateUserInput{Username: "root"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "root-id", user.ID)
}

func TestUserService_EnsureSuperuser_RequiresPassword(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	repo.EXPECT().FindUserByUsername(gomock.Any(), "root").Return(models.User{}, store.ErrNoUserWasFound)

	_, _, err := svc.EnsureSuperuser(context.Background(), models.CreateUserInput{Username: "root"})

	assert.ErrorIs(t, err, ErrSuperuserPasswordRequired)
}

func TestUserService_EnsureSuperuser_LookupError(t *testing.T) {
	svc, repo := newTestUserSvc(t)
	dbErr := errors.New("boom")
	repo.EXPECT().FindUserByUsername(gomock.Any(), "root").Return(models.User{}, dbErr)

	_, _, err := svc.EnsureSuperuser(context.Background(), models.CreateUserInput{Username: "root"})

	assert.ErrorIs(t, err, dbErr)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@example.com", NormalizeEmail("  A@Example.COM\t"))
}
