package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// It normalises and validates the base URL from cfg.HTTPAddress and bounds
// every request by cfg.RequestTimeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(cfg config.Adapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter] with POST /auth/register.
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/auth/register", req)
}

// Login implements [ServerAdapter] with POST /auth/login.
func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return h.authenticate(ctx, "/auth/login", req)
}

// authenticate posts credentials and keeps the token from the response
// body, falling back to the Authorization header.
func (h *httpServerAdapter) authenticate(ctx context.Context, path string, body any) (models.AuthResponse, error) {
	var result models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}

	if result.Token == "" {
		token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
		if err != nil {
			return models.AuthResponse{}, fmt.Errorf("%s parse bearer token: %w", path, err)
		}
		result.Token = token
	}

	h.SetToken(result.Token)
	h.logger.Debug().Str("path", path).Str("user_id", result.User.ID).Msg("bearer token stored")
	return result, nil
}

// Me implements [ServerAdapter] with GET /auth/me.
func (h *httpServerAdapter) Me(ctx context.Context) (models.UserProfile, error) {
	var result models.UserResponse

	resp, err := h.authedRequest(ctx).SetResult(&result).Get("/auth/me")
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserProfile{}, err
	}

	return result.User, nil
}

// CreateTask implements [ServerAdapter] with POST /tasks.
func (h *httpServerAdapter) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error) {
	var result models.TaskResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post("/tasks")
	if err != nil {
		return models.Task{}, fmt.Errorf("create task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return result.Task, nil
}

// ListTasks implements [ServerAdapter] with GET /tasks.
func (h *httpServerAdapter) ListTasks(ctx context.Context, query models.TaskQuery) (models.TaskPage, error) {
	var result models.TaskPage

	req := h.authedRequest(ctx).SetResult(&result)
	if query.Completed != nil {
		req.SetQueryParam("completed", strconv.FormatBool(*query.Completed))
	}
	if query.Page != nil {
		req.SetQueryParam("page", strconv.Itoa(*query.Page))
	}
	if query.Limit != nil {
		req.SetQueryParam("limit", strconv.Itoa(*query.Limit))
	}

	resp, err := req.Get("/tasks")
	if err != nil {
		return models.TaskPage{}, fmt.Errorf("list tasks request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TaskPage{}, err
	}

	return result, nil
}

// GetTask implements [ServerAdapter] with GET /tasks/{id}.
func (h *httpServerAdapter) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	var result models.TaskResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", taskID).
		SetResult(&result).
		Get("/tasks/{id}")
	if err != nil {
		return models.Task{}, fmt.Errorf("get task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return result.Task, nil
}

// UpdateTask implements [ServerAdapter] with PUT /tasks/{id}.
func (h *httpServerAdapter) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
	var result models.TaskResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", taskID).
		SetBody(patch).
		SetResult(&result).
		Put("/tasks/{id}")
	if err != nil {
		return models.Task{}, fmt.Errorf("update task request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Task{}, err
	}

	return result.Task, nil
}

// DeleteTask implements [ServerAdapter] with DELETE /tasks/{id}.
func (h *httpServerAdapter) DeleteTask(ctx context.Context, taskID string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", taskID).
		Delete("/tasks/{id}")
	if err != nil {
		return fmt.Errorf("delete task request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
