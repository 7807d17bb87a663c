package service

import (
	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/token"
	"github.com/MKhiriev/go-user-keeper/models"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	AppInfoService AppInfoService
}

// NewServices builds the service layer on top of userRepository. The user
// service is wrapped with validation. health may be nil.
func NewServices(userRepository store.UserRepository, issuer token.Issuer, health HealthChecker, build models.AppBuildInfo, cfg config.App, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg, build, health, logger)
	if err != nil {
		return nil, err
	}

	userService := NewUserValidationService(userRepository).
		Wrap(NewUserService(userRepository, cfg, logger))

	return &Services{
		AuthService:    NewAuthService(userRepository, issuer, cfg, logger),
		UserService:    userService,
		AppInfoService: appInfoService,
	}, nil
}
