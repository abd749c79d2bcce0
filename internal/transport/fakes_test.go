// ABOUTME: Test doubles for the transport package
// ABOUTME: A recording engine and a manually advanced clock
package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
)

type fakeSession struct {
	id      uint64
	offset  float64
	rates   []float64
	stopped bool
	engine  *fakeEngine
}

func (s *fakeSession) ID() uint64 { return s.id }

func (s *fakeSession) SetRate(rate float64) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.rates = append(s.rates, rate)
}

func (s *fakeSession) Stop() {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		s.engine.live--
	}
}

func (s *fakeSession) rate() float64 {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.rates[len(s.rates)-1]
}

type fakeEngine struct {
	mu       sync.Mutex
	nextID   uint64
	sessions []*fakeSession
	report   ReportFunc
	live     int
	maxLive  int
	fail     bool
}

func (e *fakeEngine) Start(asset *audio.Asset, counter audio.CounterSignal, offset, rate float64, report ReportFunc) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fail {
		return nil, errors.New("engine unavailable")
	}
	if len(counter) != asset.Len() {
		return nil, errors.New("counter mismatch")
	}

	e.nextID++
	s := &fakeSession{id: e.nextID, offset: offset, rates: []float64{rate}, engine: e}
	e.sessions = append(e.sessions, s)
	e.report = report
	e.live++
	if e.live > e.maxLive {
		e.maxLive = e.live
	}
	return s, nil
}

func (e *fakeEngine) last() *fakeSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sessions) == 0 {
		return nil
	}
	return e.sessions[len(e.sessions)-1]
}

func (e *fakeEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

func (e *fakeEngine) liveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// emit reports the beacon value for seconds into a asset of duration,
// from the most recent session
func (e *fakeEngine) emit(seconds, duration float64) {
	s := e.last()
	e.report(s.id, seconds/duration)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testAsset(seconds int) *audio.Asset {
	const rate = 100
	return &audio.Asset{
		ID:         "test",
		Name:       "test",
		SampleRate: rate,
		Frames:     make([][2]float64, seconds*rate),
	}
}

func newTestController() (*Controller, *fakeEngine, *fakeClock) {
	eng := &fakeEngine{}
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.Now = clock.Now
	return New(eng, cfg), eng, clock
}
