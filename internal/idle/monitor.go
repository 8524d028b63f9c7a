// Package idle implements the screen-lock state machine: the dashboard locks
// after a period without user activity and stays locked until explicitly
// dismissed.
package idle

import (
	"sync"
	"time"
)

// DefaultTimeout is the idle duration before the lock engages. The original
// dashboard used a demonstration-friendly 8 seconds; deployments should
// configure something in the minutes range.
const DefaultTimeout = 8 * time.Second

// Monitor is a two-state machine: Locked (initial) and Unlocked. The only
// conditional edge is the idle timeout; the only way out of Locked is
// Unlock(). Activity signals are ignored while locked so stray input cannot
// dismiss the lock.
type Monitor struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	locked  bool
	stopped bool
	onLock  func()
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithOnLock registers a callback invoked (without the monitor lock held)
// each time the idle timeout fires.
func WithOnLock(fn func()) Option {
	return func(m *Monitor) { m.onLock = fn }
}

// NewMonitor creates a monitor in the Locked state. The idle timer is not
// armed until the first Unlock.
func NewMonitor(timeout time.Duration, opts ...Option) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Monitor{timeout: timeout, locked: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Locked reports whether the screen lock is engaged.
func (m *Monitor) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Touch records a qualifying activity signal. While unlocked it restarts the
// idle timer from zero; while locked it is a no-op.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked || m.stopped {
		return
	}
	m.resetTimerLocked()
}

// Unlock dismisses the lock and arms the idle timer from zero. Unlocking an
// already-unlocked monitor just restarts the timer.
func (m *Monitor) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.locked = false
	m.resetTimerLocked()
}

// Stop releases the timer. The monitor keeps its current state but no longer
// transitions.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// resetTimerLocked unconditionally clears and restarts the single timer
// handle. Caller holds m.mu.
func (m *Monitor) resetTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.timeout, m.lock)
}

func (m *Monitor) lock() {
	m.mu.Lock()
	if m.stopped || m.locked {
		m.mu.Unlock()
		return
	}
	m.locked = true
	// The pending timer is spent; Locked does not re-arm until Unlock.
	m.timer = nil
	onLock := m.onLock
	m.mu.Unlock()

	if onLock != nil {
		onLock()
	}
}
