package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/umutak/deskmate/internal/models"
)

// TodoRepositoryInterface is the todo store surface consumed by handlers and
// the notification poller. Enables mock implementations in tests.
type TodoRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReminderRepositoryInterface is the reminder store surface.
type ReminderRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Reminder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error)
	Create(ctx context.Context, reminder *models.Reminder) error
	Update(ctx context.Context, reminder *models.Reminder) error
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NoteRepositoryInterface is the note store surface.
type NoteRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanRepositoryInterface is the plan store surface.
type PlanRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttachmentRepositoryInterface is the plan attachment store surface.
type AttachmentRepositoryInterface interface {
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Attachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	Create(ctx context.Context, a *models.Attachment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoRepositoryInterface       = (*TodoRepository)(nil)
	_ ReminderRepositoryInterface   = (*ReminderRepository)(nil)
	_ NoteRepositoryInterface       = (*NoteRepository)(nil)
	_ PlanRepositoryInterface       = (*PlanRepository)(nil)
	_ AttachmentRepositoryInterface = (*AttachmentRepository)(nil)
)
