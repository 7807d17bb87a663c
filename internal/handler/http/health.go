package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/app"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// health reports 503 when the database does not answer a ping.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.AppInfoService.CheckHealth(r.Context()); err != nil {
		utils.WriteJSON(w, models.HealthResponse{Status: app.MsgServiceUnavailable}, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, models.HealthResponse{Status: app.MsgHealthy}, http.StatusOK)
}
