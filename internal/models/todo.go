package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo is a to-do item. DueAt is optional; a todo without a due time never
// triggers a notification popup.
type Todo struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}
