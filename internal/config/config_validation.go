// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Every violated
// group is reported.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.App.validate(),
		cfg.Storage.validate(),
		cfg.Server.validate(),
	)
}

func (a App) validate() error {
	if len(a.TokenSignKey) < MinTokenSignKeyLength {
		return fmt.Errorf("%w: token sign key must be at least %d characters", ErrInvalidAppConfigs, MinTokenSignKeyLength)
	}

	if a.TokenIssuer == "" {
		return fmt.Errorf("%w: token issuer is empty", ErrInvalidAppConfigs)
	}

	if a.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}

	if a.PasswordHashCost < bcrypt.MinCost || a.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: password hash cost must be in [%d, %d]", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if _, err := zerolog.ParseLevel(a.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	return nil
}

func (s Storage) validate() error {
	switch s.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, s.DB.Driver)
	}

	if s.DB.DSN == "" {
		return fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs)
	}

	return nil
}

func (s Server) validate() error {
	if s.HTTPAddress == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidServerConfigs)
	}

	if s.RequestTimeout <= 0 || s.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidServerConfigs)
	}

	if s.AuthRateLimit > 0 && s.AuthRateBurst < 1 {
		return fmt.Errorf("%w: auth rate burst must be positive", ErrInvalidServerConfigs)
	}

	return nil
}
