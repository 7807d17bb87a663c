package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/app"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// errorStatuses is checked in order; the first match wins. Token errors
// come first because they may wrap store.ErrNoUserWasFound.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{ErrInvalidJSON, http.StatusBadRequest},
	{store.ErrNoUserWasFound, http.StatusNotFound},
	{service.ErrUnknownOperation, http.StatusInternalServerError},
}

const wwwAuthenticate = `Bearer realm="api"`

func statusFromError(err error) (int, error) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status, entry.err
		}
	}
	return http.StatusInternalServerError, nil
}

// writeError renders err as an [models.ErrorResponse]. Only the message of
// the matched sentinel reaches the client; anything unmatched is reported
// as an internal server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		log.Info().Err(err).Msg("validation failed")
		utils.WriteJSON(w, models.ErrorResponse{Error: app.MsgValidationFailed, Fields: validationErr.Fields}, http.StatusBadRequest)
		return
	}

	status, sentinel := statusFromError(err)
	message := app.MsgInternalServerError
	if sentinel != nil && status < http.StatusInternalServerError {
		message = sentinel.Error()
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Info().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", wwwAuthenticate)
	}
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrInvalidJSON
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
