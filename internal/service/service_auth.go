package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/token"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// authService is the concrete implementation of AuthService.
// Passwords are checked with bcrypt over an HMAC-SHA256 pre-hash; tokens
// are produced and verified by a token.Issuer.
type authService struct {
	// userRepository is used to look up users by username (login) and by
	// id (token subject).
	userRepository store.UserRepository

	// issuer signs and verifies access and refresh tokens.
	issuer token.Issuer

	// hashKey is the HMAC secret used to pre-hash passwords. Must match the
	// value used when the password was stored.
	hashKey string

	// dummyHash is compared against when the username is unknown so that a
	// failed lookup costs as much as a failed password check.
	dummyHash     string
	dummyHashOnce sync.Once

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and token.Issuer.
//
// The returned service is safe for concurrent use.
func NewAuthService(userRepository store.UserRepository, issuer token.Issuer, cfg config.App, logger *logger.Logger) AuthService {
	logger.Debug().Msg("creating auth service")
	return &authService{
		userRepository: userRepository,
		issuer:         issuer,
		hashKey:        cfg.PasswordHashKey,
		logger:         logger,
	}
}

// Login authenticates a user by username and password and issues a token
// pair whose subject is the user id.
//
// Returns ErrAuthenticationFailed when the username is unknown, the account
// is inactive or passwordless, or the password does not match. Storage
// failures are returned wrapped.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.Login").Logger()

	if credentials.Username == "" || credentials.Password == "" {
		return models.TokenPair{}, ErrAuthenticationFailed
	}

	user, err := a.userRepository.FindUserByUsername(ctx, credentials.Username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		utils.CheckPassword(a.getDummyHash(), credentials.Password, a.hashKey)
		log.Info().Str("username", credentials.Username).Msg("login attempt for unknown user")
		return models.TokenPair{}, ErrAuthenticationFailed
	}
	if err != nil {
		log.Err(err).Msg("user search by username failed")
		return models.TokenPair{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if !user.HasUsablePassword() {
		utils.CheckPassword(a.getDummyHash(), credentials.Password, a.hashKey)
		log.Info().Str("user_id", user.ID).Msg("login attempt for passwordless account")
		return models.TokenPair{}, ErrAuthenticationFailed
	}

	if !utils.CheckPassword(*user.PasswordHash, credentials.Password, a.hashKey) {
		log.Info().Str("user_id", user.ID).Msg("wrong password")
		return models.TokenPair{}, ErrAuthenticationFailed
	}

	if !user.IsActive {
		log.Info().Str("user_id", user.ID).Msg("login attempt for inactive account")
		return models.TokenPair{}, ErrAuthenticationFailed
	}

	pair, err := a.issuer.Issue(user.ID)
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("error issuing tokens")
		return models.TokenPair{}, fmt.Errorf("error issuing tokens: %w", err)
	}

	return pair, nil
}

// Refresh verifies a refresh token, checks that its subject still exists
// and is active, and issues a new access token. There is no rotation: the
// given refresh token is returned as is.
func (a *authService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	log := logger.FromContext(ctx).With().Str("func", "*authService.Refresh").Logger()

	user, err := a.subject(ctx, refresh, models.TokenTypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rejected")
		return models.TokenPair{}, err
	}

	access, err := a.issuer.IssueAccess(user.ID)
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("error issuing access token")
		return models.TokenPair{}, fmt.Errorf("error issuing access token: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Authenticate verifies an access token and returns the caller it
// identifies. The role is read from storage, not from the token, so role
// changes and deactivation take effect immediately.
func (a *authService) Authenticate(ctx context.Context, access string) (models.Caller, error) {
	user, err := a.subject(ctx, access, models.TokenTypeAccess)
	if err != nil {
		return models.Caller{}, err
	}

	return models.Caller{UserID: user.ID, Role: user.Role}, nil
}

// subject verifies raw as a token of type tt and loads the active user it
// names.
func (a *authService) subject(ctx context.Context, raw string, tt models.TokenType) (models.User, error) {
	claims, err := a.issuer.Verify(raw, tt)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	user, err := a.userRepository.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, fmt.Errorf("%w: user not found", ErrInvalidToken)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !user.IsActive {
		return models.User{}, fmt.Errorf("%w: user is inactive", ErrInvalidToken)
	}

	return user, nil
}

func (a *authService) getDummyHash() string {
	a.dummyHashOnce.Do(func() {
		hash, err := utils.HashPassword("dummy-password-for-timing", a.hashKey)
		if err != nil {
			a.logger.Err(err).Msg("error computing dummy password hash")
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}
