package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a timed reminder. RemindAt is the target time of the event
// itself; the notification evaluator surfaces it a fixed lead time earlier.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	RemindAt  time.Time `json:"remind_at"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
