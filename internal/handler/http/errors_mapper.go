package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

var errorStatusMap = map[error]int{
	validators.ErrValidation: http.StatusBadRequest,
	ErrInvalidJSON:           http.StatusBadRequest,

	service.ErrUserExists:         http.StatusConflict,
	service.ErrUserNotFound:       http.StatusNotFound,
	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrUnauthorized:       http.StatusUnauthorized,
	service.ErrTaskNotFound:       http.StatusNotFound,

	ErrEmptyAuthorizationHeader:         http.StatusUnauthorized,
	utils.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrTooManyRequests:                  http.StatusTooManyRequests,
	ErrRouteNotFound:                    http.StatusNotFound,
}

// statusFromError returns the HTTP status of err together with the sentinel
// it matched. Unknown errors map to 500 and a nil sentinel.
func statusFromError(err error) (int, error) {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status, target
		}
	}
	return http.StatusInternalServerError, nil
}

// writeError renders err as a JSON [models.ErrorResponse].
//
// Every 401 carries the same body whatever the cause, and server errors
// never expose their detail; both are logged with the request's trace id.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status, target := statusFromError(err)
	body := models.ErrorResponse{}

	switch {
	case status == http.StatusInternalServerError:
		log.Err(err).Msg("internal error")
		body.Error = http.StatusText(http.StatusInternalServerError)
	case status == http.StatusUnauthorized && !errors.Is(err, service.ErrInvalidCredentials):
		log.Debug().Err(err).Msg("request is not authorized")
		body.Error = service.ErrUnauthorized.Error()
	default:
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
		body.Error = target.Error()
	}

	var vErr *validators.ValidationError
	if errors.As(err, &vErr) {
		body.Fields = vErr.Fields
	}

	if _, wErr := utils.WriteJSON(w, body, status); wErr != nil {
		log.Err(wErr).Msg("error writing error response")
	}
}

// writeJSON renders data with status and logs failed writes.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
