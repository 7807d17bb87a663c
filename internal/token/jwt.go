package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTIssuer implements [Issuer] with HS256-signed JWTs.
type JWTIssuer struct {
	cfg  Config
	now  func() time.Time
	keyf jwt.Keyfunc
}

// Option customizes a JWTIssuer.
type Option func(*JWTIssuer)

// WithClock replaces time.Now. Used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(i *JWTIssuer) {
		i.now = now
	}
}

// NewJWTIssuer validates cfg and returns a ready issuer.
func NewJWTIssuer(cfg Config, opts ...Option) (*JWTIssuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	issuer := &JWTIssuer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(issuer)
	}

	signKey := []byte(cfg.SignKey)
	issuer.keyf = func(*jwt.Token) (any, error) {
		return signKey, nil
	}

	return issuer, nil
}

func (i *JWTIssuer) Issue(subject string) (models.TokenPair, error) {
	access, err := i.sign(subject, models.TokenTypeAccess, i.cfg.AccessDuration)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := i.sign(subject, models.TokenTypeRefresh, i.cfg.RefreshDuration)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *JWTIssuer) IssueAccess(subject string) (string, error) {
	return i.sign(subject, models.TokenTypeAccess, i.cfg.AccessDuration)
}

func (i *JWTIssuer) Verify(raw string, expected models.TokenType) (models.Claims, error) {
	var claims models.Claims

	_, err := jwt.ParseWithClaims(raw, &claims, i.keyf,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return models.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.TokenType != expected {
		return models.Claims{}, fmt.Errorf("%w: %w: got %q, want %q", ErrInvalidToken, ErrWrongTokenType, claims.TokenType, expected)
	}

	if claims.Subject == "" {
		return models.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrEmptySubject)
	}

	return claims, nil
}

func (i *JWTIssuer) sign(subject string, tokenType models.TokenType, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := i.now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.SignKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return signed, nil
}

var _ Issuer = (*JWTIssuer)(nil)

// IsExpired reports whether err was caused by an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
