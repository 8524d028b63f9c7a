package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// TodoRepository handles todo database operations.
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// List returns all todos, newest first.
func (r *TodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, due_at, completed, created_at
		FROM todos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		var dueAt sql.NullTime
		if err := rows.Scan(&todo.ID, &todo.Content, &dueAt, &todo.Completed, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		if dueAt.Valid {
			todo.DueAt = &dueAt.Time
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// GetByID retrieves a todo by ID.
func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	todo := &models.Todo{}
	var dueAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, content, due_at, completed, created_at
		FROM todos WHERE id = $1
	`, id).Scan(&todo.ID, &todo.Content, &dueAt, &todo.Completed, &todo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if dueAt.Valid {
		todo.DueAt = &dueAt.Time
	}
	return todo, nil
}

// Create inserts a new todo.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	var dueAt sql.NullTime
	if todo.DueAt != nil {
		dueAt = sql.NullTime{Time: *todo.DueAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO todos (id, content, due_at, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, todo.ID, todo.Content, dueAt, todo.Completed, time.Now()).Scan(&todo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// Update replaces content, due time and completion. Editing due_at on an
// uncompleted todo re-arms notification evaluation on the next poll.
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	var dueAt sql.NullTime
	if todo.DueAt != nil {
		dueAt = sql.NullTime{Time: *todo.DueAt, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE todos SET content = $2, due_at = $3, completed = $4 WHERE id = $1
	`, todo.ID, todo.Content, dueAt, todo.Completed)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return requireRowsAffected(result, "todo")
}

// SetCompleted sets the completion flag. Idempotent: re-applying the same
// value succeeds and affects the row again.
func (r *TodoRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE todos SET completed = $2 WHERE id = $1
	`, id, completed)
	if err != nil {
		return fmt.Errorf("failed to set todo completion: %w", err)
	}
	return requireRowsAffected(result, "todo")
}

// Delete removes a todo by ID.
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return requireRowsAffected(result, "todo")
}
