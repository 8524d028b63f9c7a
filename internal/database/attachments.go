package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// AttachmentRepository handles plan attachment metadata.
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// ListByPlan returns attachments for a plan, newest first.
func (r *AttachmentRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, file_name, file_url, created_at
		FROM plan_attachments
		WHERE plan_id = $1
		ORDER BY created_at DESC
	`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.PlanID, &a.FileName, &a.FileURL, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}
	return attachments, nil
}

// GetByID retrieves attachment metadata by ID.
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, plan_id, file_name, file_url, created_at
		FROM plan_attachments
		WHERE id = $1
	`, id).Scan(&a.ID, &a.PlanID, &a.FileName, &a.FileURL, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("attachment not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return a, nil
}

// Create inserts attachment metadata after the file has been stored.
func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO plan_attachments (id, plan_id, file_name, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, a.ID, a.PlanID, a.FileName, a.FileURL, time.Now()).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// Delete removes attachment metadata by ID.
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plan_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return requireRowsAffected(result, "attachment")
}
