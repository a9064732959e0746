package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-todo-keeper/models"
)

// UserRepository is the credential store. Users are created once and never
// mutated or deleted.
type UserRepository interface {
	// CreateUser inserts user. A taken email yields ErrEmailAlreadyExists.
	CreateUser(ctx context.Context, user models.User) error
	// FindUserByEmail looks a user up by the normalized email.
	// An unknown email yields ErrNoUserWasFound.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByID looks a user up by id.
	// An unknown id yields ErrNoUserWasFound.
	FindUserByID(ctx context.Context, userID string) (models.User, error)
}

// TaskRepository persists tasks. Every method is scoped by owner: a task
// owned by someone else is indistinguishable from a missing one.
type TaskRepository interface {
	CreateTask(ctx context.Context, task models.Task) error
	GetTask(ctx context.Context, ownerID, taskID string) (models.Task, error)
	// ListTasks returns one page of the owner's tasks, newest first, and the
	// total number of tasks matching the filter.
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, ownerID, taskID string, patch models.TaskPatch, updatedAt time.Time) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID string) error
}

// ErrorClassificator maps driver errors to retry decisions and recognises
// unique constraint violations for a specific database backend.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
