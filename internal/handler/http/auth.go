package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/metrics"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			h.metrics.ObserveLogin(metrics.LoginFailed)
		}
		writeError(w, r, err)
		return
	}

	h.metrics.ObserveLogin(metrics.LoginSucceeded)
	log.Debug().Str("username", credentials.Username).Msg("user successfully logged in")

	utils.WriteJSON(w, tokens, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.RefreshRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, err)
		return
	}

	if request.Refresh == "" {
		writeError(w, r, service.NewValidationError(map[string]string{"refresh": "this field is required"}))
		return
	}

	tokens, err := h.services.AuthService.Refresh(ctx, request.Refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, tokens, http.StatusOK)
}
