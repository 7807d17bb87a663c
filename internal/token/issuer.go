package token

import (
	"time"

	"github.com/MKhiriev/go-user-keeper/models"
)

//go:generate mockgen -source=issuer.go -destination=../mock/token_mock.go -package=mock

// Issuer creates and checks signed credentials for a subject (user id).
type Issuer interface {
	// Issue returns a fresh access/refresh pair for subject.
	Issue(subject string) (models.TokenPair, error)

	// IssueAccess returns a fresh access token for subject.
	IssueAccess(subject string) (string, error)

	// Verify checks signature, issuer, expiry and that the token is of the
	// expected type. On success the parsed claims are returned.
	Verify(raw string, expected models.TokenType) (models.Claims, error)
}

// Config holds the parameters of a JWT issuer.
type Config struct {
	SignKey         string
	Issuer          string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
}

func (c Config) validate() error {
	if c.SignKey == "" || c.Issuer == "" || c.AccessDuration <= 0 || c.RefreshDuration <= 0 {
		return ErrInvalidIssuerConfig
	}
	return nil
}
