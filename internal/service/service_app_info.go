package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/models"
)

type appInfoService struct {
	appVersion string
	build      models.AppBuildInfo
	health     HealthChecker

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, build models.AppBuildInfo, health HealthChecker, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		build:      build,
		health:     health,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.build
}

// CheckHealth pings the database. A service built without a checker is
// always healthy.
func (s *appInfoService) CheckHealth(ctx context.Context) error {
	if s.health == nil {
		return nil
	}

	if err := s.health.PingContext(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*appInfoService.CheckHealth").Msg("database is unreachable")
		return fmt.Errorf("database is unreachable: %w", err)
	}

	return nil
}
