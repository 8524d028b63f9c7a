package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// ReminderRepository handles reminder database operations.
type ReminderRepository struct {
	db *DB
}

// NewReminderRepository creates a new reminder repository.
func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// List returns all reminders, newest first.
func (r *ReminderRepository) List(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, remind_at, completed, created_at
		FROM reminders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		if err := rows.Scan(&reminder.ID, &reminder.Content, &reminder.RemindAt, &reminder.Completed, &reminder.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	return reminders, nil
}

// GetByID retrieves a reminder by ID.
func (r *ReminderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, content, remind_at, completed, created_at
		FROM reminders WHERE id = $1
	`, id).Scan(&reminder.ID, &reminder.Content, &reminder.RemindAt, &reminder.Completed, &reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

// Create inserts a new reminder.
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reminders (id, content, remind_at, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, reminder.ID, reminder.Content, reminder.RemindAt, reminder.Completed, time.Now()).Scan(&reminder.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// Update replaces content, remind time and completion.
func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reminders SET content = $2, remind_at = $3, completed = $4 WHERE id = $1
	`, reminder.ID, reminder.Content, reminder.RemindAt, reminder.Completed)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return requireRowsAffected(result, "reminder")
}

// SetCompleted sets the completion flag. Idempotent.
func (r *ReminderRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reminders SET completed = $2 WHERE id = $1
	`, id, completed)
	if err != nil {
		return fmt.Errorf("failed to set reminder completion: %w", err)
	}
	return requireRowsAffected(result, "reminder")
}

// Delete removes a reminder by ID.
func (r *ReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return requireRowsAffected(result, "reminder")
}
