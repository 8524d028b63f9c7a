package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often pending records are re-checked. Any value
// frequent enough that a due notification appears within one interval works;
// 10 seconds matches the dashboard's refresh cadence.
const DefaultPollInterval = 10 * time.Second

// Snapshot fetches the full current set of records for one category.
type Snapshot func(ctx context.Context) ([]Record, error)

// Publisher receives popup activations, e.g. to fan them out to external
// sinks. Implementations must not block for long; failures are logged and
// otherwise ignored.
type Publisher interface {
	PopupActivated(ctx context.Context, category Category, rec Record)
}

// Poller drives the two evaluators on a fixed interval. It evaluates once
// immediately on start, then on every tick. A failed snapshot fetch skips
// that category for the tick; the next tick re-fetches current state, so
// transient store failures self-heal.
type Poller struct {
	reminders      *Evaluator
	todos          *Evaluator
	fetchReminders Snapshot
	fetchTodos     Snapshot
	interval       time.Duration
	events         Publisher
	log            *zap.Logger
	clock          func() time.Time
}

// NewPoller creates a poller over the given evaluators and snapshot sources.
// events may be nil.
func NewPoller(reminders, todos *Evaluator, fetchReminders, fetchTodos Snapshot, interval time.Duration, events Publisher, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		reminders:      reminders,
		todos:          todos,
		fetchReminders: fetchReminders,
		fetchTodos:     fetchTodos,
		interval:       interval,
		events:         events,
		log:            log,
		clock:          time.Now,
	}
}

// Run blocks until ctx is cancelled. The ticker and any in-flight fetch are
// released on every exit path so nothing acts on stale results after
// teardown.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("notification_poller_started",
		zap.Duration("interval", p.interval),
	)

	p.Tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("notification_poller_stopped")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs a single evaluation pass over both categories.
func (p *Poller) Tick(ctx context.Context) {
	now := p.clock()
	p.evaluate(ctx, now, p.reminders, p.fetchReminders)
	p.evaluate(ctx, now, p.todos, p.fetchTodos)
}

func (p *Poller) evaluate(ctx context.Context, now time.Time, ev *Evaluator, fetch Snapshot) {
	// Skip the fetch entirely while a popup is pending; new arrivals cannot
	// preempt it anyway.
	if ev.Active() != nil {
		return
	}

	records, err := fetch(ctx)
	if err != nil {
		p.log.Warn("notification_snapshot_fetch_failed",
			zap.String("category", string(ev.Category())),
			zap.Error(err),
		)
		return
	}

	selected := ev.Evaluate(now, records)
	if selected == nil {
		return
	}

	p.log.Info("popup_activated",
		zap.String("category", string(ev.Category())),
		zap.String("record_id", selected.ID.String()),
	)

	if p.events != nil {
		p.events.PopupActivated(ctx, ev.Category(), *selected)
	}
}
