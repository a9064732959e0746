package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService signs HS256 tokens with a process-wide secret. It keeps no
// state, so a token stays valid until it expires.
type tokenService struct {
	signKey  string
	issuer   string
	duration time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewTokenService constructs a TokenService from the token settings of cfg.
func NewTokenService(cfg config.App, logger *logger.Logger) TokenService {
	return &tokenService{
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(s.issuer, userID, s.now(), s.duration, s.signKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tokenService.Issue").Msg("error signing token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func (s *tokenService) Verify(ctx context.Context, tokenString string) (string, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.signKey, s.issuer, s.now)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrTokenIsExpired, err)
		}
		return "", fmt.Errorf("%w: %w", ErrTokenIsInvalid, err)
	}

	return token.UserID, nil
}
