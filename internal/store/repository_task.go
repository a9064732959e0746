package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// taskRepository is the SQL-backed implementation of [TaskRepository].
// Every statement it issues filters on owner_id.
type taskRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTaskRepository constructs a [TaskRepository] backed by db.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	logger.Debug().Msg("creating task repository")
	return &taskRepository{
		db:     db,
		logger: logger,
	}
}

func (r *taskRepository) CreateTask(ctx context.Context, task models.Task) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.insertTaskQuery(task)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.CreateTask").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.CreateTask").Msg("error inserting task")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrTaskNotSaved
	}

	return nil
}

func (r *taskRepository) GetTask(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectTaskQuery(ownerID, taskID)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.GetTask").Msg("error building query")
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var task models.Task
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return scanTask(r.db.QueryRowContext(ctx, query, args...), &task)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}

		log.Err(err).Str("func", "*taskRepository.GetTask").Msg("error querying task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

// ListTasks runs the count and the page query separately. The two reads are
// not isolated from concurrent writes of the same owner, so total may be
// off by the writes that landed in between.
func (r *taskRepository) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := r.db.countTasksQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error building count query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	listQuery, listArgs, err := r.db.listTasksQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error building list query")
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
	})
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error counting tasks")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var tasks []models.Task
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		var queryErr error
		tasks, queryErr = r.queryTasks(ctx, listQuery, listArgs)
		return queryErr
	})
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Msg("error listing tasks")
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args []any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err = scanTask(rows, &task); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tasks, nil
}

func (r *taskRepository) UpdateTask(ctx context.Context, ownerID, taskID string, patch models.TaskPatch, updatedAt time.Time) (models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.updateTaskQuery(ownerID, taskID, patch, updatedAt)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.UpdateTask").Msg("error building query")
		return models.Task{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var task models.Task
	if err = scanTask(r.db.QueryRowContext(ctx, query, args...), &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}

		log.Err(err).Str("func", "*taskRepository.UpdateTask").Msg("error updating task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return task, nil
}

func (r *taskRepository) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.deleteTaskQuery(ownerID, taskID)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.DeleteTask").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.DeleteTask").Msg("error deleting task")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, task *models.Task) error {
	return row.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
}
