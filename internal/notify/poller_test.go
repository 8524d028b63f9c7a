package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []struct {
		Category Category
		Record   Record
	}
}

func (f *fakePublisher) PopupActivated(ctx context.Context, category Category, rec Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, struct {
		Category Category
		Record   Record
	}{category, rec})
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func staticSnapshot(records []Record) Snapshot {
	return func(ctx context.Context) ([]Record, error) {
		return records, nil
	}
}

func newTestPoller(t *testing.T, reminders, todos []Record, events Publisher) *Poller {
	t.Helper()
	p := NewPoller(
		NewEvaluator(CategoryReminder, ReminderLead),
		NewEvaluator(CategoryTodo, TodoLead),
		staticSnapshot(reminders),
		staticSnapshot(todos),
		time.Hour, // ticks driven manually in tests
		events,
		zap.NewNop(),
	)
	return p
}

func TestTick_IndependentCategorySlots(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
	reminder := Record{ID: uuid.New(), Content: "rem", DueAt: timePtr(now.Add(time.Hour))} // within 24h lead
	todo := Record{ID: uuid.New(), Content: "todo", DueAt: timePtr(now.Add(-time.Minute))}

	pub := &fakePublisher{}
	p := newTestPoller(t, []Record{reminder}, []Record{todo}, pub)
	p.clock = func() time.Time { return now }

	p.Tick(context.Background())

	// Both popups active at once: only same-category concurrency is gated.
	if active := p.reminders.Active(); active == nil || active.ID != reminder.ID {
		t.Fatalf("reminder slot: got %v, want %s", active, reminder.ID)
	}
	if active := p.todos.Active(); active == nil || active.ID != todo.ID {
		t.Fatalf("todo slot: got %v, want %s", active, todo.ID)
	}
	if pub.count() != 2 {
		t.Errorf("published %d events, want 2", pub.count())
	}
}

func TestTick_FetchFailureSkipsTick(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
	todo := Record{ID: uuid.New(), Content: "todo", DueAt: timePtr(now.Add(-time.Minute))}

	calls := 0
	flaky := func(ctx context.Context) ([]Record, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("connection refused")
		}
		return []Record{todo}, nil
	}

	p := NewPoller(
		NewEvaluator(CategoryReminder, ReminderLead),
		NewEvaluator(CategoryTodo, TodoLead),
		staticSnapshot(nil),
		flaky,
		time.Hour,
		nil,
		zap.NewNop(),
	)
	p.clock = func() time.Time { return now }

	// First tick: fetch fails, no popup, no error escapes.
	p.Tick(context.Background())
	if p.todos.Active() != nil {
		t.Fatal("popup activated despite failed fetch")
	}

	// Next tick re-fetches current state and recovers.
	p.Tick(context.Background())
	if active := p.todos.Active(); active == nil || active.ID != todo.ID {
		t.Fatalf("todo slot after recovery: got %v, want %s", active, todo.ID)
	}
}

func TestTick_NoFetchWhilePopupPending(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
	todo := Record{ID: uuid.New(), Content: "todo", DueAt: timePtr(now.Add(-time.Minute))}

	fetches := 0
	counting := func(ctx context.Context) ([]Record, error) {
		fetches++
		return []Record{todo}, nil
	}

	p := NewPoller(
		NewEvaluator(CategoryReminder, ReminderLead),
		NewEvaluator(CategoryTodo, TodoLead),
		staticSnapshot(nil),
		counting,
		time.Hour,
		nil,
		zap.NewNop(),
	)
	p.clock = func() time.Time { return now }

	p.Tick(context.Background())
	p.Tick(context.Background())
	p.Tick(context.Background())

	if fetches != 1 {
		t.Errorf("store fetched %d times with a pending popup, want 1", fetches)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	p := NewPoller(
		NewEvaluator(CategoryReminder, ReminderLead),
		NewEvaluator(CategoryTodo, TodoLead),
		staticSnapshot(nil),
		staticSnapshot(nil),
		10*time.Millisecond,
		nil,
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
