package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Handler(t *testing.T) {
	profile := models.UserProfile{ID: "user-a", Name: "Ann", Email: "ann@x.com"}

	tests := []struct {
		name       string
		body       string
		registerFn func(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			registerFn: func(_ context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
				assert.Equal(t, "secret1", req.Password)
				return models.AuthResponse{Token: "tok", User: profile}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  ErrInvalidJSON.Error(),
		},
		{
			name:       "unknown field",
			body:       `{"name":"Ann","email":"ann@x.com","password":"secret1","admin":true}`,
			wantStatus: http.StatusBadRequest,
			wantError:  ErrInvalidJSON.Error(),
		},
		{
			name: "validation error",
			body: `{"name":"A","email":"ann@x.com","password":"secret1"}`,
			registerFn: func(context.Context, models.RegisterRequest) (models.AuthResponse, error) {
				return models.AuthResponse{}, validators.NewValidationError("name", "must be at least 2 characters")
			},
			wantStatus: http.StatusBadRequest,
			wantError:  validators.ErrValidation.Error(),
		},
		{
			name: "user exists",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			registerFn: func(context.Context, models.RegisterRequest) (models.AuthResponse, error) {
				return models.AuthResponse{}, service.ErrUserExists
			},
			wantStatus: http.StatusConflict,
			wantError:  service.ErrUserExists.Error(),
		},
		{
			name: "storage failure",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			registerFn: func(context.Context, models.RegisterRequest) (models.AuthResponse, error) {
				return models.AuthResponse{}, errors.New("pq: connection refused on 10.0.0.5")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeAuthService{registerFn: tt.registerFn}, &fakeTaskService{}, testServerConfig())

			rr := doRequest(t, h.Init(), http.MethodPost, "/auth/register", tt.body, "")
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantError != "" {
				body := decodeBody[models.ErrorResponse](t, rr)
				assert.Equal(t, tt.wantError, body.Error)
				assert.NotContains(t, rr.Body.String(), "10.0.0.5")
				return
			}

			resp := decodeBody[models.AuthResponse](t, rr)
			assert.Equal(t, "tok", resp.Token)
			assert.Equal(t, profile, resp.User)
			assert.Equal(t, "Bearer tok", rr.Header().Get("Authorization"))
			assert.NotContains(t, rr.Body.String(), "password")
		})
	}
}

func TestRegister_ValidationFieldsInBody(t *testing.T) {
	auth := &fakeAuthService{
		registerFn: func(context.Context, models.RegisterRequest) (models.AuthResponse, error) {
			return models.AuthResponse{}, &validators.ValidationError{Fields: map[string]string{
				"email":    "must be a valid email address",
				"password": "must be at least 6 characters",
			}}
		},
	}
	h := newTestHandler(auth, &fakeTaskService{}, testServerConfig())

	rr := doRequest(t, h.Init(), http.MethodPost, "/auth/register", `{"name":"Ann","email":"x","password":"1"}`, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	body := decodeBody[models.ErrorResponse](t, rr)
	assert.Equal(t, "must be a valid email address", body.Fields["email"])
	assert.Equal(t, "must be at least 6 characters", body.Fields["password"])
}

func TestLogin_Handler(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
		wantError  string
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "unknown email", loginErr: service.ErrUserNotFound, wantStatus: http.StatusNotFound, wantError: service.ErrUserNotFound.Error()},
		{name: "wrong password", loginErr: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantError: service.ErrInvalidCredentials.Error()},
		{name: "missing fields", loginErr: validators.NewValidationError("password", "is required"), wantStatus: http.StatusBadRequest, wantError: validators.ErrValidation.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthService{
				loginFn: func(_ context.Context, req models.LoginRequest) (models.AuthResponse, error) {
					if tt.loginErr != nil {
						return models.AuthResponse{}, tt.loginErr
					}
					return models.AuthResponse{Token: "tok", User: models.UserProfile{ID: "user-a", Email: req.Email}}, nil
				},
			}
			h := newTestHandler(auth, &fakeTaskService{}, testServerConfig())

			rr := doRequest(t, h.Init(), http.MethodPost, "/auth/login", `{"email":"ann@x.com","password":"secret1"}`, "")
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[models.ErrorResponse](t, rr).Error)
				assert.Empty(t, rr.Header().Get("Authorization"))
				return
			}
			assert.Equal(t, "Bearer tok", rr.Header().Get("Authorization"))
			assert.Equal(t, "tok", decodeBody[models.AuthResponse](t, rr).Token)
		})
	}
}

func TestMe_Handler(t *testing.T) {
	h := newTestHandler(acceptingAuth(), &fakeTaskService{}, testServerConfig())
	router := h.Init()

	rr := doRequest(t, router, http.MethodGet, "/auth/me", "", testToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testIdentity.Profile, decodeBody[models.UserResponse](t, rr).User)

	rr = doRequest(t, router, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
