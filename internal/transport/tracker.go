// ABOUTME: Last-known position cell fed by the beacon on the render thread
// ABOUTME: Reports from retired sessions are discarded by id
package transport

import (
	"sync/atomic"
)

// Report is one beacon reading tagged with the session that produced it
type Report struct {
	Session uint64
	Value   float64
}

// Tracker keeps the most recent beacon reading. Report is the only method
// called off the controller thread; it is a single atomic store.
type Tracker struct {
	floor     atomic.Uint64
	latest    atomic.Pointer[Report]
	accepted  atomic.Uint64
	discarded atomic.Uint64
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// Report records a beacon value. Values from sessions below the retirement
// floor are dropped.
func (t *Tracker) Report(session uint64, value float64) {
	if session < t.floor.Load() {
		t.discarded.Add(1)
		return
	}
	t.latest.Store(&Report{Session: session, Value: value})
	t.accepted.Add(1)
}

// Latest returns the last value reported by session, if any
func (t *Tracker) Latest(session uint64) (float64, bool) {
	r := t.latest.Load()
	if r == nil || r.Session != session {
		return 0, false
	}
	return r.Value, true
}

// Retire drops every future report from session and anything older
func (t *Tracker) Retire(session uint64) {
	for {
		cur := t.floor.Load()
		if session+1 <= cur {
			return
		}
		if t.floor.CompareAndSwap(cur, session+1) {
			return
		}
	}
}

// Stats returns how many reports were accepted and discarded
func (t *Tracker) Stats() (accepted, discarded uint64) {
	return t.accepted.Load(), t.discarded.Load()
}
