package models

import (
	"strings"
	"time"
)

// Task is a single todo item, permanently bound to the user that created it.
type Task struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Task model.
func (t Task) TableName() string {
	return "tasks"
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// Normalize trims the title in place.
func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// TaskPatch is the body of PUT /tasks/{id}.
// Only non-nil fields are applied (partial update support).
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the patch carries no field to update.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Normalize trims the title in place, if present.
func (p *TaskPatch) Normalize() {
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		p.Title = &trimmed
	}
}

// TaskQuery holds the list parameters accepted by GET /tasks.
// Nil Page and Limit mean "use the default".
type TaskQuery struct {
	Completed *bool `json:"completed"`
	Page      *int  `json:"page" validate:"omitnil,gte=1"`
	Limit     *int  `json:"limit" validate:"omitnil,gte=1,lte=100"`
}

// TaskFilter is the storage-level form of a list request.
type TaskFilter struct {
	OwnerID   string
	Completed *bool
	Limit     uint64
	Offset    uint64
}

// Pagination describes the page returned by a list request.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// TaskPage is the response of GET /tasks.
type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// TaskResponse wraps a single task in responses.
type TaskResponse struct {
	Task Task `json:"task"`
}
