// Package notify implements the due-notification core: given snapshots of
// reminder and todo records and the current time, it decides which record (if
// any) is surfaced as a popup, enforcing a single active popup per category.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category identifies which popup slot a record belongs to. Reminder and todo
// popups are independent; one of each may be active at the same time.
type Category string

const (
	CategoryReminder Category = "reminder"
	CategoryTodo     Category = "todo"
)

// Record is the category-agnostic view of a reminder or todo as the evaluator
// sees it. DueAt is the target time of the underlying record; records without
// one never become due.
type Record struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Completed bool       `json:"completed"`
}

// Slot holds at most one active popup. All mutation goes through the
// Evaluator so no other code path can disagree about whether a popup is
// showing. The mutex covers the race between the poll tick and the HTTP
// acknowledgment handler.
type Slot struct {
	mu     sync.Mutex
	active *Record
}

// Active returns a copy of the record currently occupying the slot, or nil.
func (s *Slot) Active() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	rec := *s.active
	return &rec
}
