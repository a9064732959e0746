package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	resp, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", resp.User.ID).Msg("user successfully registered")

	w.Header().Set("Authorization", "Bearer "+resp.Token)
	h.writeJSON(w, r, resp, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	resp, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", resp.User.ID).Msg("user successfully logged in")

	w.Header().Set("Authorization", "Bearer "+resp.Token)
	h.writeJSON(w, r, resp, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return
	}

	h.writeJSON(w, r, models.UserResponse{User: identity.Profile}, http.StatusOK)
}
