package service

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// AuthService registers users, logs them in and resolves bearer tokens to
// identities.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	// Authenticate verifies tokenString and resolves its subject. Every
	// failure wraps ErrUnauthorized, except store outages which are returned
	// as is.
	Authenticate(ctx context.Context, tokenString string) (models.Identity, error)
}

// TokenService issues and verifies stateless signed tokens.
type TokenService interface {
	Issue(ctx context.Context, userID string) (models.Token, error)
	// Verify returns the subject of a valid token, ErrTokenIsExpired when the
	// expiry has been reached and ErrTokenIsInvalid for anything else.
	Verify(ctx context.Context, tokenString string) (string, error)
}

// TaskService is the ownership-scoped task store. ownerID always comes from
// the authenticated identity, never from a request body.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID string, req models.CreateTaskRequest) (models.Task, error)
	ListTasks(ctx context.Context, ownerID string, query models.TaskQuery) (models.TaskPage, error)
	GetTask(ctx context.Context, ownerID, taskID string) (models.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
}

// TaskServiceWrapper defines middleware composition for TaskService.
// Implementations wrap an existing TaskService to add behavior such as
// validating.
type TaskServiceWrapper interface {
	Wrap(TaskService) TaskService // returns a decorated TaskService applying additional behavior
}

// IDGenerator produces unique opaque identifiers.
type IDGenerator interface {
	Generate() string
}
