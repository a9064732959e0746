package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

var (
	userColumns = []string{"id", "name", "email", "password_hash", "created_at"}
	taskColumns = []string{"id", "owner_id", "title", "completed", "created_at", "updated_at"}
)

const taskOrder = "created_at DESC, id DESC"

// users

func (db *DB) insertUserQuery(user models.User) (string, []any, error) {
	return db.builder.
		Insert(user.TableName()).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
}

func (db *DB) selectUserQuery(where sq.Eq) (string, []any, error) {
	return db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
}

// tasks

func ownerScope(ownerID, taskID string) sq.And {
	return sq.And{sq.Eq{"owner_id": ownerID}, sq.Eq{"id": taskID}}
}

func (db *DB) insertTaskQuery(task models.Task) (string, []any, error) {
	return db.builder.
		Insert(task.TableName()).
		Columns(taskColumns...).
		Values(task.ID, task.OwnerID, task.Title, task.Completed, task.CreatedAt, task.UpdatedAt).
		ToSql()
}

func (db *DB) selectTaskQuery(ownerID, taskID string) (string, []any, error) {
	return db.builder.
		Select(taskColumns...).
		From(models.Task{}.TableName()).
		Where(ownerScope(ownerID, taskID)).
		ToSql()
}

func listFilter(filter models.TaskFilter) sq.And {
	where := sq.And{sq.Eq{"owner_id": filter.OwnerID}}
	if filter.Completed != nil {
		where = append(where, sq.Eq{"completed": *filter.Completed})
	}
	return where
}

func (db *DB) countTasksQuery(filter models.TaskFilter) (string, []any, error) {
	return db.builder.
		Select("COUNT(*)").
		From(models.Task{}.TableName()).
		Where(listFilter(filter)).
		ToSql()
}

func (db *DB) listTasksQuery(filter models.TaskFilter) (string, []any, error) {
	return db.builder.
		Select(taskColumns...).
		From(models.Task{}.TableName()).
		Where(listFilter(filter)).
		OrderBy(taskOrder).
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSql()
}

func (db *DB) updateTaskQuery(ownerID, taskID string, patch models.TaskPatch, updatedAt time.Time) (string, []any, error) {
	if patch.IsEmpty() {
		return "", nil, fmt.Errorf("%w: empty task patch", ErrBuildingSQLQuery)
	}

	update := db.builder.
		Update(models.Task{}.TableName()).
		Set("updated_at", updatedAt)

	if patch.Title != nil {
		update = update.Set("title", *patch.Title)
	}
	if patch.Completed != nil {
		update = update.Set("completed", *patch.Completed)
	}

	return update.
		Where(ownerScope(ownerID, taskID)).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
}

func (db *DB) deleteTaskQuery(ownerID, taskID string) (string, []any, error) {
	return db.builder.
		Delete(models.Task{}.TableName()).
		Where(ownerScope(ownerID, taskID)).
		ToSql()
}
