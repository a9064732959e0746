package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// TaskValidationService checks task payloads before handing them to the
// wrapped TaskService. Rejections are *validators.ValidationError values.
type TaskValidationService struct {
	inner     TaskService
	validator validators.Validator
}

func NewTaskValidationService(validator validators.Validator) TaskServiceWrapper {
	return &TaskValidationService{
		validator: validator,
	}
}

func (v *TaskValidationService) CreateTask(ctx context.Context, ownerID string, req models.CreateTaskRequest) (models.Task, error) {
	req.Normalize()
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.Task{}, fmt.Errorf("error during task validation before saving: %w", err)
	}

	return v.inner.CreateTask(ctx, ownerID, req)
}

func (v *TaskValidationService) ListTasks(ctx context.Context, ownerID string, query models.TaskQuery) (models.TaskPage, error) {
	if err := v.validator.Validate(ctx, query); err != nil {
		return models.TaskPage{}, fmt.Errorf("error during task query validation: %w", err)
	}

	return v.inner.ListTasks(ctx, ownerID, query)
}

func (v *TaskValidationService) GetTask(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	if taskID == "" {
		return models.Task{}, ErrTaskNotFound
	}

	return v.inner.GetTask(ctx, ownerID, taskID)
}

func (v *TaskValidationService) UpdateTask(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (models.Task, error) {
	if taskID == "" {
		return models.Task{}, ErrTaskNotFound
	}

	patch.Normalize()
	if err := v.validator.Validate(ctx, patch); err != nil {
		return models.Task{}, fmt.Errorf("error during task patch validation: %w", err)
	}

	return v.inner.UpdateTask(ctx, ownerID, taskID, patch)
}

func (v *TaskValidationService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if taskID == "" {
		return ErrTaskNotFound
	}

	return v.inner.DeleteTask(ctx, ownerID, taskID)
}

func (v *TaskValidationService) Wrap(wrapped TaskService) TaskService {
	v.inner = wrapped
	return v
}
