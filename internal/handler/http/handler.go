package http

import (
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/metrics"
	"github.com/MKhiriev/go-user-keeper/internal/service"
)

type Handler struct {
	services *service.Services
	metrics  *metrics.HTTPMetrics

	logger *logger.Logger
}

// NewHandler returns a Handler over services. A nil m gets a fresh
// metrics registry.
func NewHandler(services *service.Services, m *metrics.HTTPMetrics, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	if m == nil {
		m = metrics.NewHTTPMetrics()
	}
	return &Handler{
		services: services,
		metrics:  m,
		logger:   logger,
	}
}
