package http

import (
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/utils"
)

// auth is the access guard of every protected route.
//
// It extracts the bearer token from the "Authorization" header, resolves it
// through [service.AuthService.Authenticate] and stores the resulting
// [models.Identity] in the request context under [utils.IdentityCtxKey].
//
// The request is rejected with 401 when:
//   - the header is absent ([ErrEmptyAuthorizationHeader]);
//   - the header is not "Bearer <token>" ([utils.ErrInvalidAuthorizationHeader]);
//   - the token is forged, malformed or expired;
//   - the token subject no longer exists.
//
// All of these produce the same response body; the cause is only logged.
// The guard never mutates state.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		identity, err := h.services.AuthService.Authenticate(r.Context(), tokenString)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), identity)))
	})
}
