package token

import "errors"

var (
	ErrInvalidIssuerConfig = errors.New("invalid token issuer config")
	ErrInvalidToken        = errors.New("invalid token")
	ErrWrongTokenType      = errors.New("wrong token type")
	ErrEmptySubject        = errors.New("empty token subject")
)
