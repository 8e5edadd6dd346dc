// Package watch provides the timing primitives behind page rescans and
// field-value persistence: trailing-edge debouncers, a change feed and a
// monotonic serial guard for discarding stale responses.
package watch

import (
	"sync"
	"time"
)

// RescanDelay is the minimum quiet period after a burst of DOM changes
// before the page is classified again.
const RescanDelay = 200 * time.Millisecond

// SaveDelay is the quiet period after the user stops typing before a field
// value is persisted.
const SaveDelay = 1000 * time.Millisecond

// Debouncer coalesces bursts of triggers into one callback invocation on
// the trailing edge. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending
// invocation. Only the fn of the last trigger in a burst runs.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Feed fans change notifications out to subscribers. Notifications carry no
// payload; subscribers rescan the page themselves, since the DOM may have
// changed again by the time they run.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan struct{})}
}

// Subscribe registers a subscriber. The returned channel gets at most one
// pending notification; the cancel func removes the subscription.
func (f *Feed) Subscribe() (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan struct{}, 1)
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Notify signals all subscribers. A subscriber with a notification already
// pending is not signaled again; one wakeup covers any number of changes.
func (f *Feed) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Serial issues monotonically increasing request ids and validates that a
// completing request is still the latest one. Responses arriving for an
// older id must be dropped, not applied.
type Serial struct {
	mu sync.Mutex
	id uint64
}

// Next issues a new request id, invalidating all earlier ones.
func (s *Serial) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id++
	return s.id
}

// Current returns true when id is still the latest issued id.
func (s *Serial) Current(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id == s.id
}
