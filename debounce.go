package journey

import "time"

// DefaultResizeDebounce is the quiet period before a resize reaches the
// canvas backing stores.
const DefaultResizeDebounce = 150 * time.Millisecond

// Debouncer collapses bursts of triggers into one firing after a quiet
// period. It owns no timer goroutine: the frame loop polls it, so the firing
// happens on the loop's goroutine and cancelling is just clearing state.
type Debouncer struct {
	delay    time.Duration
	deadline time.Time
	pending  bool
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger (re)arms the debouncer at now.
func (d *Debouncer) Trigger(now time.Time) {
	d.deadline = now.Add(d.delay)
	d.pending = true
}

// Poll reports whether the quiet period has elapsed since the last trigger.
// It returns true at most once per armed period.
func (d *Debouncer) Poll(now time.Time) bool {
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a firing is scheduled.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Cancel clears any scheduled firing.
func (d *Debouncer) Cancel() {
	d.pending = false
}
