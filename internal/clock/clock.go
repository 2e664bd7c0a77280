// Package clock abstracts wall time and timer waits so that backoff,
// stagger and freshness decisions can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time and produces one-shot timers.
type Clock interface {
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// Real is the wall clock.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time { return time.Now() }

// After implements Clock.
func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Fake is a manual clock. After fires immediately and advances the clock by
// the requested duration, recording every wait in order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewFake returns a Fake set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now implements Clock.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// After implements Clock.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.now = f.now.Add(d)
	fired := f.now
	f.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- fired
	return ch
}

// Advance moves the clock forward without recording a wait.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Waits returns a copy of the recorded waits.
func (f *Fake) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.waits))
	copy(out, f.waits)
	return out
}

// Reset forgets recorded waits.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.waits = nil
	f.mu.Unlock()
}
