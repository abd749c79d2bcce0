// ABOUTME: Transport state machine for play, cue, seek, scrub and bend gestures
// ABOUTME: Owns the single playback session and the cue and pause points
package transport

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
)

// State of the transport
type State int

const (
	Stopped State = iota
	Playing
	Cueing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "PLAYING"
	case Cueing:
		return "CUEING"
	default:
		return "STOPPED"
	}
}

// ReportFunc receives beacon values from the render thread
type ReportFunc func(session uint64, value float64)

// Session is a running playback of the loaded asset
type Session interface {
	ID() uint64
	SetRate(rate float64)
	Stop()
}

// Engine starts sessions. Implementations must tear down any session they
// are still running before the new one produces sound, and must hand out
// strictly increasing session ids.
type Engine interface {
	Start(asset *audio.Asset, counter audio.CounterSignal, offset, rate float64, report ReportFunc) (Session, error)
}

// Config holds controller configuration
type Config struct {
	Rate RateConfig

	// RampInterval is how often held ramps are sampled and applied
	RampInterval time.Duration

	// Now is the controller clock; defaults to time.Now
	Now func() time.Time

	Debug bool
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Rate:         DefaultRateConfig(),
		RampInterval: 30 * time.Millisecond,
	}
}

// Snapshot is everything a display surface needs to draw the deck
type Snapshot struct {
	State      State
	Loaded     bool
	AssetID    string
	AssetName  string
	Duration   float64
	Position   float64
	CuePoint   float64
	PausePoint float64
	Remaining  int
	Tempo      float64
	Rate       float64
	Override   OverrideKind
	Nudging    bool
	SessionID  uint64
}

// seekGesture remembers how a held seek began
type seekGesture struct {
	fromStopped bool
}

// Controller is the transport. All methods are safe to call from any
// goroutine; they are serialized internally. Operations on an unloaded
// deck are ignored.
type Controller struct {
	config  Config
	engine  Engine
	tracker *Tracker

	mu      sync.Mutex
	rate    *RateController
	asset   *audio.Asset
	counter audio.CounterSignal
	state   State

	session       Session
	sessionOffset float64
	applied       float64

	cue   float64
	pause float64

	seek            *seekGesture
	pressureCapable bool
}

// New creates a controller driving engine
func New(engine Engine, config Config) *Controller {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.RampInterval <= 0 {
		config.RampInterval = 30 * time.Millisecond
	}
	if config.Rate == (RateConfig{}) {
		config.Rate = DefaultRateConfig()
	}

	return &Controller{
		config:  config,
		engine:  engine,
		tracker: NewTracker(),
		rate:    NewRateController(config.Rate),
	}
}

// Tracker exposes the position cell for diagnostics
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// Load replaces the asset and resets the deck. Any running session is torn
// down first.
func (c *Controller) Load(asset *audio.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopSessionLocked()
	c.resetLocked()
	if asset == nil || asset.Len() == 0 {
		return
	}

	c.asset = asset
	c.counter = audio.NewCounterSignal(asset.Len())
	log.Printf("Loaded %s: %.1fs at %dHz", asset.Name, asset.Duration(), asset.SampleRate)
}

// Unload tears down the session and disables the transport
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopSessionLocked()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.asset = nil
	c.counter = nil
	c.state = Stopped
	c.cue = 0
	c.pause = 0
	c.seek = nil
	c.pressureCapable = false
	c.rate.Reset()
}

// Loaded reports whether an asset is loaded
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asset != nil
}

// Play toggles playback. From CUEING it keeps the running session and
// switches to PLAYING.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}

	switch c.state {
	case Stopped:
		if c.session != nil {
			// a seek scan is running; end it where it is
			c.pause = c.positionLocked()
			c.stopSessionLocked()
			c.rate.Clear(OverrideSeek)
			c.seek = nil
		}
		c.state = Playing
		c.startLocked(c.pause, c.rate.Tempo())
	case Cueing:
		c.state = Playing
	case Playing:
		c.haltLocked()
	}
}

// CueDown restarts playback from the cue point and enters CUEING
func (c *Controller) CueDown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}

	c.rate.Clear(OverrideSeek)
	c.seek = nil
	c.state = Cueing
	c.startLocked(c.cue, c.rate.Tempo())
}

// CueUp stops a cue preview and stores where it stopped as the pause
// point. It does nothing unless the transport is CUEING.
func (c *Controller) CueUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || c.state != Cueing {
		return
	}
	c.haltLocked()
}

// SetCue stores the current position as the cue point, or the pause point
// when nothing is playing
func (c *Controller) SetCue() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}
	if c.session != nil {
		c.cue = c.positionLocked()
	} else {
		c.cue = c.pause
	}
}

// SeekDown starts a held seek in dir. The session restarts at the current
// offset at the seek rate for the current state.
func (c *Controller) SeekDown(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}

	fromStopped := c.state == Stopped
	if c.seek != nil {
		fromStopped = c.seek.fromStopped
	}

	offset := c.pause
	if c.session != nil {
		offset = c.positionLocked()
	}

	c.rate.SetSeek(dir, c.rate.SeekRate(c.state))
	c.seek = &seekGesture{fromStopped: fromStopped}
	c.startLocked(offset, c.rate.Effective(c.config.Now()))
}

// SeekUp releases a held seek. A scan started from STOPPED ends and its
// final position becomes the pause point; otherwise playback carries on
// at tempo.
func (c *Controller) SeekUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || c.seek == nil {
		return
	}

	gesture := c.seek
	c.seek = nil
	c.rate.Clear(OverrideSeek)

	if gesture.fromStopped && c.state == Stopped {
		if c.session != nil {
			c.pause = c.positionLocked()
			c.stopSessionLocked()
		}
		return
	}
	c.applyRateLocked()
}

// Scrub jumps to target seconds, clamped to the asset. A running session
// restarts there at its current rate; otherwise only the pause point moves.
func (c *Controller) Scrub(target float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || !finite(target) {
		return
	}

	target = c.clampLocked(target)
	if c.session != nil {
		c.startLocked(target, c.rate.Effective(c.config.Now()))
		return
	}
	c.pause = target
}

// BendDown starts a timed pitch bend. Ignored while stopped, and while the
// current gesture is driven by pressure.
func (c *Controller) BendDown(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || c.state == Stopped || c.pressureCapable {
		return
	}
	c.rate.BeginBend(dir, c.config.Now())
	c.applyRateLocked()
}

// BendUp releases any bend, timed or pressure, and returns to tempo
func (c *Controller) BendUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pressureCapable = false
	if c.asset == nil {
		return
	}
	c.rate.Clear(OverrideBend)
	c.rate.Clear(OverridePressure)
	c.applyRateLocked()
}

// PressureBegin announces that the current bend gesture reports pressure.
// A timed ramp already running is dropped and stays suppressed until the
// gesture ends.
func (c *Controller) PressureBegin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}
	c.pressureCapable = true
	if c.rate.Clear(OverrideBend) {
		c.applyRateLocked()
	}
}

// Pressure applies a pressure bend in dir. A force of zero releases it.
func (c *Controller) Pressure(dir Direction, force float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || c.state == Stopped || !finite(force) {
		return
	}

	if force <= 0 {
		c.pressureCapable = false
		c.rate.Clear(OverridePressure)
	} else {
		c.rate.SetPressure(dir, force)
	}
	c.applyRateLocked()
}

// SetTempo sets the baseline rate, clamped to the configured range
func (c *Controller) SetTempo(tempo float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil || !finite(tempo) {
		return
	}
	c.rate.SetTempo(tempo)
	c.applyRateLocked()
}

// NudgeDown starts the held tempo ramp in dir
func (c *Controller) NudgeDown(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}
	c.rate.BeginNudge(dir, c.config.Now())
}

// NudgeUp ends the held tempo ramp. Tempo stays where the ramp left it.
func (c *Controller) NudgeUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}
	c.rate.EndNudge(c.config.Now())
	c.applyRateLocked()
}

// Tick samples held ramps and pushes the resulting rate to the session
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.asset == nil {
		return
	}
	c.applyRateLocked()
}

// Run ticks ramps until ctx is cancelled
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.config.RampInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Tick()
		case <-ctx.Done():
			c.mu.Lock()
			c.stopSessionLocked()
			c.mu.Unlock()
			return
		}
	}
}

// State returns the transport state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the current offset in seconds: the live beacon position
// while a session runs, the pause point otherwise
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

// Snapshot returns a consistent view of the deck
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:      c.state,
		Loaded:     c.asset != nil,
		CuePoint:   c.cue,
		PausePoint: c.pause,
		Tempo:      c.rate.Tempo(),
		Rate:       c.applied,
		Override:   c.rate.Override().Kind,
		Nudging:    c.rate.Nudging(),
	}
	if c.session != nil {
		snap.SessionID = c.session.ID()
	} else {
		snap.Rate = 0
	}
	if c.asset != nil {
		snap.AssetID = c.asset.ID
		snap.AssetName = c.asset.Name
		snap.Duration = c.asset.Duration()
		snap.Position = c.positionLocked()
		snap.Remaining = int(math.Round(snap.Duration - snap.Position))
	}
	return snap
}

func (c *Controller) positionLocked() float64 {
	if c.session == nil {
		return c.pause
	}
	if v, ok := c.tracker.Latest(c.session.ID()); ok {
		return c.clampLocked(audio.Offset(v, c.asset.Duration()))
	}
	return c.sessionOffset
}

func (c *Controller) clampLocked(offset float64) float64 {
	return math.Max(0, math.Min(offset, c.asset.Duration()))
}

// haltLocked stops playback, keeps the position as the pause point and
// drops every pending gesture
func (c *Controller) haltLocked() {
	c.pause = c.positionLocked()
	c.stopSessionLocked()
	c.state = Stopped
	c.rate.ClearOverride()
	c.seek = nil
	c.pressureCapable = false
}

// startLocked replaces the session: the old one is fully stopped before
// the new one is created
func (c *Controller) startLocked(offset, rate float64) {
	c.stopSessionLocked()

	offset = c.clampLocked(offset)
	s, err := c.engine.Start(c.asset, c.counter, offset, rate, c.tracker.Report)
	if err != nil {
		log.Printf("Failed to start playback at %.3fs: %v", offset, err)
		c.state = Stopped
		c.rate.ClearOverride()
		c.seek = nil
		return
	}

	c.session = s
	c.sessionOffset = offset
	c.applied = rate

	if c.config.Debug {
		log.Printf("Session %d: %s at %.3fs, rate %.3f", s.ID(), c.state, offset, rate)
	}
}

func (c *Controller) stopSessionLocked() {
	if c.session == nil {
		return
	}
	s := c.session
	c.session = nil
	s.Stop()
	c.tracker.Retire(s.ID())
}

// applyRateLocked advances ramps and pushes the effective rate if changed
func (c *Controller) applyRateLocked() {
	now := c.config.Now()
	c.rate.Advance(now)
	if c.session == nil {
		return
	}
	r := c.rate.Effective(now)
	if r != c.applied {
		c.session.SetRate(r)
		c.applied = r
	}
}
