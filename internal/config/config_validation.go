// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid* sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.PasswordHashKey == "" {
		return fmt.Errorf("%w: token sign key and password hash key are required", ErrInvalidAppConfigs)
	}

	if cfg.App.AccessTokenDuration <= 0 || cfg.App.RefreshTokenDuration <= 0 {
		return fmt.Errorf("%w: token durations must be positive", ErrInvalidAppConfigs)
	}

	if cfg.App.RefreshTokenDuration < cfg.App.AccessTokenDuration {
		return fmt.Errorf("%w: refresh token must outlive access token", ErrInvalidAppConfigs)
	}

	if su := cfg.App.Superuser; su.Username != "" && (su.Email == "" || su.Password == "") {
		return fmt.Errorf("%w: superuser needs email and password", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
