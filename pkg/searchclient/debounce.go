// Package searchclient is the Go client for the search endpoint. It wraps
// the POST /search contract with the debounce-and-discard behavior the
// autocomplete UI needs: rapid successive queries collapse into one request,
// and responses for superseded queries are dropped.
package searchclient

import (
	"sync"
	"time"
)

// Debouncer delays work until input has settled. Each Trigger replaces any
// pending callback and restarts the timer, so only the last callback in a
// burst runs. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the settle delay, replacing any callback
// scheduled by an earlier Trigger that has not fired yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback. A callback already running is not
// interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
