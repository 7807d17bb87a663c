package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
)

const bearerScheme = "Bearer"

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the access token from the "Authorization" header, resolves it
// to a caller via [service.AuthService.Authenticate] and stores the caller
// in the request context with [utils.WithCaller].
//
// Requests without a header, with a malformed header or with a token that
// does not verify are rejected with 401 before any handler runs. The
// caller's role is not inspected here.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Debug().Msg("request without credentials")
			writeError(w, r, fmt.Errorf("%w: %w", service.ErrUnauthenticated, ErrEmptyAuthorizationHeader))
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidToken, err))
			return
		}

		ctx := r.Context()
		caller, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			writeError(w, r, err)
			return
		}

		userLog := log.With().Str("user_id", caller.UserID).Logger()
		ctx = utils.WithCaller(userLog.WithContext(ctx), &caller)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the token from a header of the form
//
//	Authorization: Bearer <token>
//
// The scheme is matched case-insensitively.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) == 0 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", ErrInvalidAuthorizationHeader
	}
	if len(parts) == 1 {
		return "", ErrEmptyToken
	}
	if len(parts) > 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	return parts[1], nil
}
