package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-todo-keeper/internal/service"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-chi/chi/v5"
)

// ownerID returns the authenticated caller. The owner of a task is never
// read from the request itself.
func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrUnauthorized)
		return "", false
	}
	return identity.UserID, true
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	query, err := parseTaskQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.services.TaskService.ListTasks(r.Context(), ownerID, query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, page, http.StatusOK)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	task, err := h.services.TaskService.CreateTask(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.TaskResponse{Task: task}, http.StatusCreated)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	task, err := h.services.TaskService.GetTask(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.TaskResponse{Task: task}, http.StatusOK)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	task, err := h.services.TaskService.UpdateTask(r.Context(), ownerID, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, models.TaskResponse{Task: task}, http.StatusOK)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	if err := h.services.TaskService.DeleteTask(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, struct{}{}, http.StatusOK)
}

// parseTaskQuery reads completed, page and limit from the query string.
// Range checks are left to the service validation.
func parseTaskQuery(values url.Values) (models.TaskQuery, error) {
	var query models.TaskQuery

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return models.TaskQuery{}, validators.NewValidationError("completed", "must be a boolean")
		}
		query.Completed = &completed
	}

	for _, param := range []struct {
		name string
		dst  **int
	}{
		{name: "page", dst: &query.Page},
		{name: "limit", dst: &query.Limit},
	} {
		raw := values.Get(param.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.TaskQuery{}, validators.NewValidationError(param.name, "must be an integer")
		}
		*param.dst = &n
	}

	return query, nil
}
