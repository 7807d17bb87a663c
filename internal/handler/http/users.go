package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-chi/chi/v5"
)

// caller is nil for anonymous requests; the service layer rejects those.
func caller(r *http.Request) *models.Caller {
	c, _ := utils.GetCallerFromContext(r.Context())
	return c
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.services.UserService.List(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.WriteJSON(w, models.UsersResponse{Data: models.UsersData{Users: users}}, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.UserService.Get(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeUser(w, user, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.UserService.Me(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeUser(w, user, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var input models.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.Create(r.Context(), caller(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("created_user_id", user.ID).Msg("user created")
	writeUser(w, user, http.StatusCreated)
}

// updateUser serves both PUT and PATCH. Either way only the fields present
// in the body are changed.
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.Update(r.Context(), caller(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeUser(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.services.UserService.Delete(r.Context(), caller(r), id); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("deleted_user_id", id).Msg("user deleted")
	utils.WriteJSON(w, models.EmptyResponse{}, http.StatusOK)
}

func writeUser(w http.ResponseWriter, user models.User, status int) {
	utils.WriteJSON(w, models.UserResponse{Data: models.UserData{User: user}}, status)
}
