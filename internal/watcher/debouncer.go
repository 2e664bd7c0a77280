package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period before a change is
// delivered.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer runs only the last of a burst of callbacks, once the burst has
// been quiet for the configured duration.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer returns a Debouncer. Zero means DefaultDebounceDuration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback, replacing any callback still pending.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, callback)
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
