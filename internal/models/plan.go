package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a longer-form planning document with optional file attachments.
type Plan struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attachment is a file attached to a plan. FileURL points into the blob
// store; the row is the source of truth for listing.
type Attachment struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"plan_id"`
	FileName  string    `json:"file_name"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}
