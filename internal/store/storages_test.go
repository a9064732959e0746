package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newSQLiteStorages(t *testing.T) *Storages {
	t.Helper()
	cfg := config.Storage{DB: config.DB{
		Driver: config.DriverSQLite,
		DSN:    "file:" + filepath.Join(t.TempDir(), "todo.db"),
	}}

	s, err := NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func seedUser(t *testing.T, s *Storages, id, email string) models.User {
	t.Helper()
	user := models.User{ID: id, Name: "User " + id, Email: email, PasswordHash: "hash", CreatedAt: now()}
	require.NoError(t, s.UserRepository.CreateUser(context.Background(), user))
	return user
}

func seedTask(t *testing.T, s *Storages, id, ownerID, title string, createdAt time.Time) models.Task {
	t.Helper()
	task := models.Task{ID: id, OwnerID: ownerID, Title: title, CreatedAt: createdAt, UpdatedAt: createdAt}
	require.NoError(t, s.TaskRepository.CreateTask(context.Background(), task))
	return task
}

// ── NewStorages ───────────────────────────────────────────────────────────────

func TestNewStorages_UnknownDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.Storage{DB: config.DB{Driver: "mysql", DSN: "x"}}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

// ── SQLite integration ────────────────────────────────────────────────────────

func TestSQLite_UserRoundTrip(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()

	created := seedUser(t, s, "u-1", "ann@x.io")

	byEmail, err := s.UserRepository.FindUserByEmail(ctx, "ann@x.io")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, created.PasswordHash, byEmail.PasswordHash)
	assert.True(t, created.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := s.UserRepository.FindUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", byID.Email)

	_, err = s.UserRepository.FindUserByEmail(ctx, "bob@x.io")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestSQLite_DuplicateEmail(t *testing.T) {
	s := newSQLiteStorages(t)
	seedUser(t, s, "u-1", "ann@x.io")

	err := s.UserRepository.CreateUser(context.Background(), models.User{
		ID: "u-2", Name: "Other", Email: "ann@x.io", PasswordHash: "hash", CreatedAt: now(),
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// TestSQLite_ConcurrentDuplicateEmail verifies exactly one of many concurrent
// inserts of the same email succeeds.
func TestSQLite_ConcurrentDuplicateEmail(t *testing.T) {
	s := newSQLiteStorages(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.UserRepository.CreateUser(context.Background(), models.User{
				ID: fmt.Sprintf("u-%d", i), Name: "Ann", Email: "ann@x.io", PasswordHash: "hash", CreatedAt: now(),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSQLite_TaskOwnership(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()
	seedUser(t, s, "ann", "ann@x.io")
	seedUser(t, s, "bob", "bob@x.io")
	seedTask(t, s, "t-1", "ann", "Buy milk", now())

	_, err := s.TaskRepository.GetTask(ctx, "bob", "t-1")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	completed := true
	_, err = s.TaskRepository.UpdateTask(ctx, "bob", "t-1", models.TaskPatch{Completed: &completed}, now())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, s.TaskRepository.DeleteTask(ctx, "bob", "t-1"), ErrTaskNotFound)

	task, err := s.TaskRepository.GetTask(ctx, "ann", "t-1")
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Equal(t, "Buy milk", task.Title)
}

func TestSQLite_UpdateAndDelete(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()
	seedUser(t, s, "ann", "ann@x.io")
	created := seedTask(t, s, "t-1", "ann", "Buy milk", now().Add(-time.Minute))

	completed := true
	updatedAt := now()
	task, err := s.TaskRepository.UpdateTask(ctx, "ann", "t-1", models.TaskPatch{Completed: &completed}, updatedAt)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, "Buy milk", task.Title)
	assert.True(t, task.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, task.UpdatedAt.Equal(updatedAt))

	require.NoError(t, s.TaskRepository.DeleteTask(ctx, "ann", "t-1"))
	_, err = s.TaskRepository.GetTask(ctx, "ann", "t-1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSQLite_ListTasks(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()
	seedUser(t, s, "ann", "ann@x.io")
	seedUser(t, s, "bob", "bob@x.io")

	base := now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTask(t, s, fmt.Sprintf("t-%d", i), "ann", fmt.Sprintf("task %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	seedTask(t, s, "b-1", "bob", "bob's task", base)

	completed := true
	_, err := s.TaskRepository.UpdateTask(ctx, "ann", "t-1", models.TaskPatch{Completed: &completed}, now())
	require.NoError(t, err)

	page, total, err := s.TaskRepository.ListTasks(ctx, models.TaskFilter{OwnerID: "ann", Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "t-4", page[0].ID)
	assert.Equal(t, "t-3", page[1].ID)

	page, _, err = s.TaskRepository.ListTasks(ctx, models.TaskFilter{OwnerID: "ann", Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "t-0", page[0].ID)

	done, total, err := s.TaskRepository.ListTasks(ctx, models.TaskFilter{OwnerID: "ann", Completed: &completed, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, done, 1)
	assert.Equal(t, "t-1", done[0].ID)

	bobs, total, err := s.TaskRepository.ListTasks(ctx, models.TaskFilter{OwnerID: "bob", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "b-1", bobs[0].ID)
}

func TestSQLite_TaskRequiresExistingOwner(t *testing.T) {
	s := newSQLiteStorages(t)

	err := s.TaskRepository.CreateTask(context.Background(), models.Task{
		ID: "t-1", OwnerID: "ghost", Title: "orphan", CreatedAt: now(), UpdatedAt: now(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecutingStatement))
}
