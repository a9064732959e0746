package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// Pagination bounds applied to GET /tasks.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type taskService struct {
	taskRepository store.TaskRepository
	ids            IDGenerator
	now            func() time.Time

	logger *logger.Logger
}

// NewTaskService returns the TaskService backed by taskRepository.
// It expects validated input; wrap it with NewTaskValidationService.
func NewTaskService(taskRepository store.TaskRepository, ids IDGenerator, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepository: taskRepository,
		ids:            ids,
		now:            time.Now,
		logger:         logger,
	}
}

func (t *taskService) CreateTask(ctx context.Context, ownerID string, req models.CreateTaskRequest) (models.Task, error) {
	req.Normalize()

	now := t.now().UTC()
	task := models.Task{
		ID:        t.ids.Generate(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := t.taskRepository.CreateTask(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("error saving task: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("task_id", task.ID).Msg("task created")

	return task, nil
}

func (t *taskService) ListTasks(ctx context.Context, ownerID string, query models.TaskQuery) (models.TaskPage, error) {
	page, limit := DefaultPage, DefaultLimit
	if query.Page != nil {
		page = *query.Page
	}
	if query.Limit != nil {
		limit = min(*query.Limit, MaxLimit)
	}

	tasks, total, err := t.taskRepository.ListTasks(ctx, models.TaskFilter{
		OwnerID:   ownerID,
		Completed: query.Completed,
		Limit:     uint64(limit),
		Offset:    uint64((page - 1) * limit),
	})
	if err != nil {
		return models.TaskPage{}, fmt.Errorf("error listing tasks: %w", err)
	}

	if tasks == nil {
		tasks = make([]models.Task, 0)
	}

	return models.TaskPage{
		Tasks: tasks,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

func (t *taskService) GetTask(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	task, err := t.taskRepository.GetTask(ctx, ownerID, taskID)
	if err != nil {
		return models.Task{}, mapTaskError(err)
	}

	return task, nil
}

func (t *taskService) UpdateTask(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (models.Task, error) {
	patch.Normalize()

	task, err := t.taskRepository.UpdateTask(ctx, ownerID, taskID, patch, t.now().UTC())
	if err != nil {
		return models.Task{}, mapTaskError(err)
	}

	return task, nil
}

func (t *taskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if err := t.taskRepository.DeleteTask(ctx, ownerID, taskID); err != nil {
		return mapTaskError(err)
	}

	logger.FromContext(ctx).Debug().Str("task_id", taskID).Msg("task deleted")

	return nil
}

// mapTaskError turns the repository's not-found into the service sentinel.
// A task owned by someone else reaches here as the same not-found.
func mapTaskError(err error) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return fmt.Errorf("task storage error: %w", err)
}
