// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a Go client for the todo REST API.
//
// [ServerAdapter] hides the transport from callers: it serialises requests,
// keeps the bearer token obtained by Register or Login and attaches it to
// every protected call. Non-2xx responses are decoded into *[APIError]
// values that unwrap to the sentinels in errors.go, so callers can use
// [errors.Is] (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// ServerAdapter defines communication with the todo API server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or "" if none was set.
	Token() string

	// Register creates an account and stores the returned token.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates and stores the returned token.
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	// Me returns the profile of the token owner.
	Me(ctx context.Context) (models.UserProfile, error)

	CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error)
	ListTasks(ctx context.Context, query models.TaskQuery) (models.TaskPage, error)
	GetTask(ctx context.Context, taskID string) (models.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}
