package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// PlanRepository handles plan database operations.
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List returns all plans, most recently updated first.
func (r *PlanRepository) List(ctx context.Context) ([]*models.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, created_at, updated_at
		FROM plans
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan := &models.Plan{}
		if err := rows.Scan(&plan.ID, &plan.Title, &plan.Content, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}

// GetByID retrieves a plan by ID.
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan := &models.Plan{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, created_at, updated_at
		FROM plans
		WHERE id = $1
	`, id).Scan(&plan.ID, &plan.Title, &plan.Content, &plan.CreatedAt, &plan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// Create inserts a new plan.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	now := time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO plans (id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, plan.ID, plan.Title, plan.Content, now, now).Scan(&plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// Update replaces title and content and bumps updated_at.
func (r *PlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE plans SET title = $2, content = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at
	`, plan.ID, plan.Title, plan.Content, time.Now()).Scan(&plan.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("plan not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

// Delete removes a plan. Attachments cascade in the database; blob cleanup is
// the caller's concern.
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return requireRowsAffected(result, "plan")
}
