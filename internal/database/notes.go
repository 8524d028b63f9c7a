package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// NoteRepository handles note database operations.
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// List returns all notes, newest first.
func (r *NoteRepository) List(ctx context.Context) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, created_at
		FROM notes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.Content, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}

// Create inserts a new note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notes (id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, note.ID, note.Content, time.Now()).Scan(&note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// UpdateContent replaces the note text.
func (r *NoteRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notes SET content = $2 WHERE id = $1
	`, id, content)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireRowsAffected(result, "note")
}

// Delete removes a note by ID.
func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireRowsAffected(result, "note")
}

// requireRowsAffected converts a zero-row write into a not-found error.
func requireRowsAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s not found", entity)
	}
	return nil
}
