package adapter_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/adapter"
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/handler"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// startServer runs the whole stack against a fresh SQLite file and returns
// its base URL.
func startServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	dsn := "file:" + filepath.Join(t.TempDir(), "todo.db") + "?_foreign_keys=on&_busy_timeout=5000"
	storages, err := store.NewStorages(ctx, config.Storage{DB: config.DB{Driver: config.DriverSQLite, DSN: dsn}}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	services, err := service.NewServices(storages, config.App{
		TokenSignKey:     "e2e-sign-key-that-is-at-least-32-chars",
		TokenIssuer:      "go-todo-keeper",
		TokenDuration:    time.Hour,
		PasswordHashCost: bcrypt.MinCost,
	}, log)
	require.NoError(t, err)

	handlers, err := handler.NewHandlers(services, config.Server{
		HTTPAddress:    "127.0.0.1:0",
		RequestTimeout: 10 * time.Second,
		AuthRateLimit:  -1,
	}, log)
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.HTTP.Init())
	t.Cleanup(srv.Close)

	return srv.URL
}

func newClient(t *testing.T, baseURL string) adapter.ServerAdapter {
	t.Helper()
	client, err := adapter.NewHTTPServerAdapter(config.Adapter{HTTPAddress: baseURL, RequestTimeout: 10 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return client
}

func TestTwoUsersAreIsolated(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	ann := newClient(t, baseURL)
	bob := newClient(t, baseURL)

	annAuth, err := ann.Register(ctx, models.RegisterRequest{Name: "Ann", Email: "Ann@X.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", annAuth.User.Email)
	assert.NotEmpty(t, ann.Token())

	_, err = bob.Register(ctx, models.RegisterRequest{Name: "Bob", Email: "bob@x.com", Password: "secret2"})
	require.NoError(t, err)

	task, err := ann.CreateTask(ctx, models.CreateTaskRequest{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, annAuth.User.ID, task.OwnerID)
	assert.False(t, task.Completed)

	annPage, err := ann.ListTasks(ctx, models.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, annPage.Tasks, 1)
	assert.Equal(t, task.ID, annPage.Tasks[0].ID)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 20, Total: 1, Pages: 1}, annPage.Pagination)

	bobPage, err := bob.ListTasks(ctx, models.TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, bobPage.Tasks)
	assert.Zero(t, bobPage.Pagination.Total)

	_, err = bob.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, adapter.ErrNotFound)

	completed := true
	_, err = bob.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: &completed})
	assert.ErrorIs(t, err, adapter.ErrNotFound)

	assert.ErrorIs(t, bob.DeleteTask(ctx, task.ID), adapter.ErrNotFound)

	updated, err := ann.UpdateTask(ctx, task.ID, models.TaskPatch{Completed: &completed})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)

	done, err := ann.ListTasks(ctx, models.TaskQuery{Completed: &completed})
	require.NoError(t, err)
	assert.Len(t, done.Tasks, 1)

	require.NoError(t, ann.DeleteTask(ctx, task.ID))

	annPage, err = ann.ListTasks(ctx, models.TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, annPage.Tasks)

	assert.ErrorIs(t, ann.DeleteTask(ctx, task.ID), adapter.ErrNotFound)
}

func TestLoginAndMe(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	client := newClient(t, baseURL)
	registered, err := client.Register(ctx, models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	fresh := newClient(t, baseURL)

	_, err = fresh.Me(ctx)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)

	_, err = fresh.Login(ctx, models.LoginRequest{Email: "ann@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)

	_, err = fresh.Login(ctx, models.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, adapter.ErrNotFound)

	_, err = fresh.Login(ctx, models.LoginRequest{Email: " ANN@x.com ", Password: "secret1"})
	require.NoError(t, err)

	me, err := fresh.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, me.ID)

	fresh.SetToken(fresh.Token() + "x")
	_, err = fresh.Me(ctx)
	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}

func TestValidationErrorsCarryFields(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	client := newClient(t, baseURL)
	_, err := client.Register(ctx, models.RegisterRequest{Name: "A", Email: "not-an-email", Password: "123"})
	require.ErrorIs(t, err, adapter.ErrBadRequest)

	var apiErr *adapter.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Fields, "name")
	assert.Contains(t, apiErr.Fields, "email")
	assert.Contains(t, apiErr.Fields, "password")
	assert.Empty(t, client.Token())
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client, err := adapter.NewHTTPServerAdapter(config.Adapter{HTTPAddress: baseURL, RequestTimeout: 10 * time.Second}, logger.Nop())
			if err != nil {
				return
			}

			_, err = client.Register(ctx, models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, adapter.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}
