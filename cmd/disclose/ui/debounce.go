package ui

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events into one: the function runs only after
// the configured duration has elapsed with no new calls. It is a plain
// timer contract (start, cancel, fire) with no knowledge of the event
// source, so it can be tested without simulating real input.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the quiet period. A newer call cancels and
// restarts the pending timer, so a rapid burst fires fn once.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancels any pending call and runs fn synchronously. Used for
// the explicit commit key that must bypass the quiet period.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// SearchDebounceDuration is the pause after the last keystroke before a
// filter pass runs.
const SearchDebounceDuration = 300 * time.Millisecond
