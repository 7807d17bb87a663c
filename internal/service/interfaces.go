package service

import (
	"context"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=UserServiceWrapper

// AuthService exchanges credentials for tokens and resolves bearer tokens
// into callers.
type AuthService interface {
	// Login verifies credentials and issues an access/refresh pair.
	Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error)

	// Refresh issues a new access token for a valid refresh token. The
	// refresh token itself is returned unchanged.
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Authenticate verifies an access token and returns the caller with its
	// current role.
	Authenticate(ctx context.Context, access string) (models.Caller, error)
}

// UserService is the user resource. Every operation except EnsureSuperuser
// authorizes caller first.
type UserService interface {
	List(ctx context.Context, caller *models.Caller) ([]models.User, error)
	Get(ctx context.Context, caller *models.Caller, id string) (models.User, error)
	Me(ctx context.Context, caller *models.Caller) (models.User, error)
	Create(ctx context.Context, caller *models.Caller, input models.CreateUserInput) (models.User, error)
	Update(ctx context.Context, caller *models.Caller, id string, input models.UpdateUserInput) (models.User, error)
	Delete(ctx context.Context, caller *models.Caller, id string) error

	// EnsureSuperuser creates an admin account from input unless a user
	// with that username exists. created reports whether a user was written.
	EnsureSuperuser(ctx context.Context, input models.CreateUserInput) (user models.User, created bool, err error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	// GetBuildInfo returns the metadata the binary was built with.
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
	CheckHealth(ctx context.Context) error
}

// UserServiceWrapper defines middleware composition for UserService.
// Implementations wrap an existing UserService to add behavior such as
// validation.
type UserServiceWrapper interface {
	Wrap(UserService) UserService
}

// HealthChecker is anything that can confirm its backend is reachable.
// *store.DB satisfies it.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}
