package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// ReminderLead is how far ahead of a reminder's target time its popup
	// appears: a full day's advance notice.
	ReminderLead = 24 * time.Hour
	// TodoLead is zero: a todo becomes due exactly at its due time.
	TodoLead time.Duration = 0
)

// CompleteFunc persists the completed flag for a record. It is called before
// the slot is cleared; if it fails the popup stays visible for retry.
type CompleteFunc func(ctx context.Context, id uuid.UUID) error

// Evaluator owns one category's popup slot and selection policy.
type Evaluator struct {
	category Category
	lead     time.Duration
	slot     Slot
}

// NewEvaluator creates an evaluator for one popup category. lead is
// subtracted from each record's due time to get its notification time.
func NewEvaluator(category Category, lead time.Duration) *Evaluator {
	return &Evaluator{category: category, lead: lead}
}

// Category returns the evaluator's popup category.
func (e *Evaluator) Category() Category { return e.category }

// Active returns a copy of the currently shown record, or nil.
func (e *Evaluator) Active() *Record { return e.slot.Active() }

// Evaluate runs one evaluation tick. If the slot is already occupied it
// returns nil immediately: an unacknowledged popup is never preempted, no
// matter how many records become due meanwhile. Otherwise it scans records in
// their given order and occupies the slot with the first one whose
// notification time has arrived, returning a copy of it. Completed records
// and records without a due time are skipped silently.
//
// A due record can fall back to not-due if the clock moves backward; that is
// fine, it is simply not selected until its notification time comes around
// again.
func (e *Evaluator) Evaluate(now time.Time, records []Record) *Record {
	e.slot.mu.Lock()
	defer e.slot.mu.Unlock()

	if e.slot.active != nil {
		return nil
	}

	for _, rec := range records {
		if rec.Completed || rec.DueAt == nil {
			continue
		}
		notifyAt := rec.DueAt.Add(-e.lead)
		if now.Before(notifyAt) {
			continue
		}
		selected := rec
		e.slot.active = &selected
		out := selected
		return &out
	}
	return nil
}

// Acknowledge marks the active record completed via complete, then clears the
// slot. The write happens first: a failed write leaves the popup in place so
// the notification is not silently lost. Acknowledging an empty slot is a
// no-op.
func (e *Evaluator) Acknowledge(ctx context.Context, complete CompleteFunc) error {
	e.slot.mu.Lock()
	defer e.slot.mu.Unlock()

	if e.slot.active == nil {
		return nil
	}
	if err := complete(ctx, e.slot.active.ID); err != nil {
		return fmt.Errorf("failed to persist acknowledgment: %w", err)
	}
	e.slot.active = nil
	return nil
}
