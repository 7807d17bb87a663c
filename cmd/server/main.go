package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-user-keeper/internal/cache"
	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/handler"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/metrics"
	"github.com/MKhiriev/go-user-keeper/internal/server"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/internal/token"
	"github.com/MKhiriev/go-user-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("user-keeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if err = run(context.Background(), cfg, build, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.StructuredConfig, build models.AppBuildInfo, log *logger.Logger) error {
	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if cerr := storages.Close(); cerr != nil {
			log.Err(cerr).Msg("error closing storages")
		}
	}()

	userRepository := storages.UserRepository
	if cfg.Storage.Cache.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Storage.Cache, log)
		if err != nil {
			return fmt.Errorf("error creating redis client: %w", err)
		}
		defer redisClient.Close()

		userRepository = cache.NewCachedUserRepository(userRepository, redisClient, cfg.Storage.Cache.TTL)
	}

	issuer, err := token.NewJWTIssuer(token.Config{
		SignKey:         cfg.App.TokenSignKey,
		Issuer:          cfg.App.TokenIssuer,
		AccessDuration:  cfg.App.AccessTokenDuration,
		RefreshDuration: cfg.App.RefreshTokenDuration,
	})
	if err != nil {
		return fmt.Errorf("error creating token issuer: %w", err)
	}

	services, err := service.NewServices(userRepository, issuer, storages.DB, build, cfg.App, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	if err = ensureSuperuser(log.WithContext(ctx), services.UserService, cfg.App.Superuser, log); err != nil {
		return err
	}

	handlers, err := handler.NewHandlers(services, metrics.NewHTTPMetrics(), cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer()
}

// ensureSuperuser bootstraps the configured admin account. Nothing happens
// when no superuser username is configured.
func ensureSuperuser(ctx context.Context, users service.UserService, su config.Superuser, log *logger.Logger) error {
	if su.Username == "" {
		return nil
	}

	password := su.Password
	input := models.CreateUserInput{
		Username:        su.Username,
		Email:           su.Email,
		Role:            models.RoleAdmin,
		Password:        &password,
		ConfirmPassword: &password,
	}

	user, created, err := users.EnsureSuperuser(ctx, input)
	if err != nil {
		return fmt.Errorf("error creating superuser: %w", err)
	}
	if created {
		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("superuser created")
	} else {
		log.Debug().Str("username", su.Username).Msg("superuser already exists")
	}
	return nil
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
