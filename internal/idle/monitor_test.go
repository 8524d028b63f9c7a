package idle

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestMonitor_StartsLocked(t *testing.T) {
	t.Parallel()

	m := NewMonitor(50 * time.Millisecond)
	defer m.Stop()

	if !m.Locked() {
		t.Fatal("monitor must start in the locked state")
	}
}

func TestMonitor_LocksAfterIdleTimeout(t *testing.T) {
	t.Parallel()

	m := NewMonitor(60 * time.Millisecond)
	defer m.Stop()

	m.Unlock()
	if m.Locked() {
		t.Fatal("unlock did not take effect")
	}

	// Not before the timeout.
	time.Sleep(20 * time.Millisecond)
	if m.Locked() {
		t.Fatal("locked before the idle duration elapsed")
	}

	if !waitFor(t, time.Second, m.Locked) {
		t.Fatal("did not lock after the idle duration")
	}
}

func TestMonitor_TouchResetsIdleTimer(t *testing.T) {
	t.Parallel()

	m := NewMonitor(80 * time.Millisecond)
	defer m.Stop()
	m.Unlock()

	// Keep touching more often than the timeout; the lock must not engage.
	for i := 0; i < 5; i++ {
		time.Sleep(40 * time.Millisecond)
		m.Touch()
		if m.Locked() {
			t.Fatalf("locked during continuous activity (iteration %d)", i)
		}
	}

	// Activity stops; lock engages after one full timeout.
	if !waitFor(t, time.Second, m.Locked) {
		t.Fatal("did not lock after activity stopped")
	}
}

func TestMonitor_LockedIgnoresActivity(t *testing.T) {
	t.Parallel()

	m := NewMonitor(30 * time.Millisecond)
	defer m.Stop()
	m.Unlock()
	if !waitFor(t, time.Second, m.Locked) {
		t.Fatal("setup: did not lock")
	}

	// Simulated pointer/key/scroll input while locked: never unlocks.
	for i := 0; i < 10; i++ {
		m.Touch()
	}
	time.Sleep(50 * time.Millisecond)
	if !m.Locked() {
		t.Fatal("activity signal dismissed the lock")
	}

	// The explicit dismissal is the only way out.
	m.Unlock()
	if m.Locked() {
		t.Fatal("explicit unlock did not take effect")
	}
}

func TestMonitor_UnlockRearmsTimerFromZero(t *testing.T) {
	t.Parallel()

	m := NewMonitor(50 * time.Millisecond)
	defer m.Stop()

	m.Unlock()
	if !waitFor(t, time.Second, m.Locked) {
		t.Fatal("setup: did not lock")
	}

	m.Unlock()
	if m.Locked() {
		t.Fatal("unlock did not take effect")
	}
	if !waitFor(t, time.Second, m.Locked) {
		t.Fatal("timer not re-armed after unlock")
	}
}

func TestMonitor_OnLockCallback(t *testing.T) {
	t.Parallel()

	locked := make(chan struct{}, 1)
	m := NewMonitor(30*time.Millisecond, WithOnLock(func() {
		locked <- struct{}{}
	}))
	defer m.Stop()

	m.Unlock()
	select {
	case <-locked:
	case <-time.After(time.Second):
		t.Fatal("onLock callback never fired")
	}
}

func TestMonitor_StopReleasesTimer(t *testing.T) {
	t.Parallel()

	m := NewMonitor(30 * time.Millisecond)
	m.Unlock()
	m.Stop()

	time.Sleep(60 * time.Millisecond)
	if m.Locked() {
		t.Fatal("stopped monitor still transitioned to locked")
	}
}
