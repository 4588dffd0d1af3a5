package watch

import (
	"sync"
	"time"
)

// Debouncer gathers events into a Change and hands it over once the window
// has passed without new events, or as soon as maxBatch paths are pending.
// Successive events for one path are coalesced.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	onFlush  func(Change)

	mu      sync.Mutex
	pending map[string]FileEvent
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, maxBatch int, onFlush func(Change)) *Debouncer {
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		onFlush:  onFlush,
		pending:  make(map[string]FileEvent),
	}
}

// Add records event and restarts the window.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	if prev, ok := d.pending[event.Path]; ok {
		if merged, keep := coalesce(prev, event); keep {
			d.pending[event.Path] = merged
		} else {
			delete(d.pending, event.Path)
		}
	} else {
		d.pending[event.Path] = event
	}

	if d.maxBatch > 0 && len(d.pending) >= d.maxBatch {
		change := d.takeLocked()
		d.mu.Unlock()
		d.deliver(change)
		return
	}

	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.fire)
	} else {
		d.timer.Reset(d.window)
	}
	d.mu.Unlock()
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	change := d.takeLocked()
	d.mu.Unlock()
	d.deliver(change)
}

// takeLocked empties the pending set. d.mu must be held.
func (d *Debouncer) takeLocked() Change {
	if d.timer != nil {
		d.timer.Stop()
	}
	change := newChange(d.pending)
	d.pending = make(map[string]FileEvent)
	return change
}

func (d *Debouncer) deliver(change Change) {
	if len(change.Events) > 0 && d.onFlush != nil {
		d.onFlush(change)
	}
}

// Stop delivers what is pending and ignores later events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	change := d.takeLocked()
	d.mu.Unlock()
	d.deliver(change)
}
