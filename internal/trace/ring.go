package trace

import (
	"io"
	"slices"
	"sync"
	"sync/atomic"
)

// RingTracer keeps the last N events in memory. On a failed run the CLI dumps
// the history of the failing units only, which keeps the dump readable for
// large batches.
type RingTracer struct {
	level Level
	seq   atomic.Uint64

	mu     sync.Mutex
	events []Event
	next   int // write position once the ring is full
	failed map[string]struct{}
}

// NewRingTracer creates a ring holding at most capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		level:  level,
		events: make([]Event, 0, capacity),
		failed: make(map[string]struct{}),
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	stored := *ev
	stored.Seq = t.seq.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	if stored.Unit != "" && stored.Failed() {
		t.failed[stored.Unit] = struct{}{}
	}
	if len(t.events) < cap(t.events) {
		t.events = append(t.events, stored)
		return
	}
	t.events[t.next] = stored
	t.next = (t.next + 1) % len(t.events)
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// FailedUnits lists, sorted, every unit that reported an error diagnostic or
// ended with errors, including units whose events were already evicted.
// Run-level events of a batch carry no unit and are never listed.
func (t *RingTracer) FailedUnits() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	units := make([]string, 0, len(t.failed))
	for u := range t.failed {
		units = append(units, u)
	}
	slices.Sort(units)
	return units
}

// Dump writes every stored event.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.Snapshot(), format, nil)
}

// DumpFailures writes the stored events of failing units plus the run-level
// events. It writes nothing when no unit failed.
func (t *RingTracer) DumpFailures(w io.Writer, format Format) (bool, error) {
	failed := t.FailedUnits()
	if len(failed) == 0 {
		return false, nil
	}
	keep := func(ev *Event) bool {
		if ev.Unit == "" {
			return true
		}
		_, ok := slices.BinarySearch(failed, ev.Unit)
		return ok
	}
	return true, writeEvents(w, t.Snapshot(), format, keep)
}

func writeEvents(w io.Writer, events []Event, format Format, keep func(*Event) bool) error {
	for i := range events {
		if keep != nil && !keep(&events[i]) {
			continue
		}
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }

// Close is a no-op: the ring is dumped explicitly.
func (t *RingTracer) Close() error { return nil }
