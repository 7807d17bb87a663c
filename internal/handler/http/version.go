package http

import (
	"net/http"

	"github.com/MKhiriev/go-user-keeper/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(serverVersion))
}

// getBuildInfo reports the configured version together with the build
// metadata of the running binary.
func (h *Handler) getBuildInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	build := h.services.AppInfoService.GetBuildInfo(ctx)

	utils.WriteJSON(w, build.Response(h.services.AppInfoService.GetAppVersion(ctx)), http.StatusOK)
}
