// Package activity tracks when the user last did something.
//
// Two independent producers feed the tracker: global input notifications
// (RecordActivity, from a hook goroutine) and the idle loop's pointer polling
// (ObservePointer). Both only ever store "now", so last write wins.
package activity

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/stigoleg/mousemover/internal/platform"
)

// Stats counts how activity was detected.
type Stats struct {
	// Notifications is the number of RecordActivity calls.
	Notifications int64
	// PointerMoves is the number of polls that saw the pointer move.
	PointerMoves int64
}

// Tracker is the single source of truth for the last user activity.
type Tracker struct {
	// origin carries the monotonic clock reading all timestamps are relative to.
	origin time.Time
	// last is nanoseconds since origin of the last activity.
	last atomic.Int64

	mu      sync.Mutex
	pointer platform.Point

	notifications atomic.Int64
	pointerMoves  atomic.Int64
}

// New creates a tracker whose idle clock starts at now with the pointer at p.
func New(now time.Time, p platform.Point) *Tracker {
	return &Tracker{origin: now, pointer: p}
}

// RecordActivity sets the last activity to now. It is safe to call from any
// goroutine.
func (t *Tracker) RecordActivity(now time.Time) {
	t.notifications.Add(1)
	t.store(now)
}

// ObservePointer compares p with the last known pointer location. A different
// location counts as activity at now. It reports whether p moved.
func (t *Tracker) ObservePointer(p platform.Point, now time.Time) bool {
	t.mu.Lock()
	moved := p != t.pointer
	if moved {
		t.pointer = p
	}
	t.mu.Unlock()

	if moved {
		t.pointerMoves.Add(1)
		t.store(now)
	}
	return moved
}

// IdleDuration returns how long the user has been idle as of now. It never
// returns a negative duration.
func (t *Tracker) IdleDuration(now time.Time) time.Duration {
	idle := now.Sub(t.origin) - time.Duration(t.last.Load())
	if idle < 0 {
		return 0
	}
	return idle
}

// Reset restarts the idle clock at now, after the system moved the pointer
// itself.
func (t *Tracker) Reset(now time.Time) {
	t.store(now)
}

// LastActivity returns the time of the last recorded activity.
func (t *Tracker) LastActivity() time.Time {
	return t.origin.Add(time.Duration(t.last.Load()))
}

// Pointer returns the last known pointer location.
func (t *Tracker) Pointer() platform.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer
}

// Stats returns detection counters.
func (t *Tracker) Stats() Stats {
	return Stats{
		Notifications: t.notifications.Load(),
		PointerMoves:  t.pointerMoves.Load(),
	}
}

func (t *Tracker) store(now time.Time) {
	t.last.Store(int64(now.Sub(t.origin)))
}
