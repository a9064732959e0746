package http

import (
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
)

type Handler struct {
	services *service.Services
	limiter  *IPRateLimiter
	cfg      config.Server

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		limiter:  NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		cfg:      cfg,
		logger:   logger,
	}
}

// Limiter exposes the auth rate limiter so its idle entries can be swept by
// a background worker.
func (h *Handler) Limiter() *IPRateLimiter {
	return h.limiter
}
