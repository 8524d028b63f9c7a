package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a freeform text note on the dashboard.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
