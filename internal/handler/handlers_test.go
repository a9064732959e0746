package handler

import (
	"testing"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewHandlers_HTTP verifies that an HTTP address yields an HTTP handler.
func TestNewHandlers_HTTP(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080", AuthRateLimit: 5, AuthRateBurst: 10}

	h, err := NewHandlers(&service.Services{}, cfg, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP)
	assert.True(t, h.HTTP.Limiter().Enabled())
}

// TestNewHandlers_NoAddress verifies that an empty configuration is rejected.
func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.Server{}, logger.Nop())

	assert.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}
