// ABOUTME: Effective playback rate from the tempo baseline plus one override
// ABOUTME: Ramps are pure functions of how long their gesture has been held
package transport

import (
	"math"
	"time"
)

// Direction of a seek, bend or tempo nudge
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d < 0 {
		return "-"
	}
	return "+"
}

// OverrideKind names the transient rate modifier currently in force
type OverrideKind int

const (
	OverrideNone OverrideKind = iota
	OverrideSeek
	OverrideBend
	OverridePressure
)

func (k OverrideKind) String() string {
	switch k {
	case OverrideSeek:
		return "seek"
	case OverrideBend:
		return "bend"
	case OverridePressure:
		return "pressure"
	default:
		return "none"
	}
}

// MaxPressure is the strongest force an input device reports
const MaxPressure = 3.0

// RateConfig holds the rate limits and ramp shapes
type RateConfig struct {
	TempoMin float64
	TempoMax float64

	// Absolute seek rates per transport state
	SeekPlaying float64
	SeekStopped float64
	SeekCueing  float64

	BendStep     float64
	BendInterval time.Duration
	BendMax      float64

	NudgeStep     float64
	NudgeInterval time.Duration
}

// DefaultRateConfig returns the stock deck behaviour
func DefaultRateConfig() RateConfig {
	return RateConfig{
		TempoMin:      0.9,
		TempoMax:      1.1,
		SeekPlaying:   3,
		SeekStopped:   6,
		SeekCueing:    1,
		BendStep:      0.005,
		BendInterval:  30 * time.Millisecond,
		BendMax:       2,
		NudgeStep:     0.001,
		NudgeInterval: 50 * time.Millisecond,
	}
}

// Override is the transient modifier layered on top of tempo
type Override struct {
	Kind      OverrideKind
	Direction Direction
	Magnitude float64
	Since     time.Time
}

// BendMultiplier is the timed pitch-bend ramp: one step per elapsed
// interval, starting at 1 and clamped at max
func BendMultiplier(elapsed time.Duration, step float64, interval time.Duration, max float64) float64 {
	if elapsed <= 0 || interval <= 0 {
		return 1
	}
	steps := float64(elapsed / interval)
	return math.Min(1+step*steps, max)
}

// PressureMultiplier maps a pressure reading to a bend multiplier
func PressureMultiplier(force float64) float64 {
	if !finite(force) {
		return 1
	}
	force = math.Max(0, math.Min(force, MaxPressure))
	return ((force - 1) / 2) + 1
}

// NudgeTempo is the held tempo ramp: base moved one step per elapsed
// interval in dir. The caller clamps.
func NudgeTempo(base float64, dir Direction, elapsed time.Duration, step float64, interval time.Duration) float64 {
	if elapsed <= 0 || interval <= 0 {
		return base
	}
	return base + float64(dir)*step*float64(elapsed/interval)
}

type nudge struct {
	dir     Direction
	base    float64
	started time.Time
}

// RateController owns tempo and the active override. It is not safe for
// concurrent use; the transport controller serializes access.
type RateController struct {
	config   RateConfig
	tempo    float64
	override Override
	nudge    *nudge
}

// NewRateController creates a controller at tempo 1
func NewRateController(config RateConfig) *RateController {
	return &RateController{config: config, tempo: 1}
}

// Config returns the rate configuration
func (r *RateController) Config() RateConfig {
	return r.config
}

// Tempo returns the baseline multiplier
func (r *RateController) Tempo() float64 {
	return r.tempo
}

// SetTempo sets the baseline, clamped to the configured range. A held
// nudge is abandoned.
func (r *RateController) SetTempo(tempo float64) float64 {
	r.nudge = nil
	r.tempo = r.clampTempo(tempo)
	return r.tempo
}

func (r *RateController) clampTempo(tempo float64) float64 {
	if !finite(tempo) {
		return r.tempo
	}
	return math.Max(r.config.TempoMin, math.Min(tempo, r.config.TempoMax))
}

// BeginNudge starts the held tempo ramp
func (r *RateController) BeginNudge(dir Direction, now time.Time) {
	r.Advance(now)
	r.nudge = &nudge{dir: dir, base: r.tempo, started: now}
}

// EndNudge commits the ramp and leaves tempo where it reached
func (r *RateController) EndNudge(now time.Time) {
	r.Advance(now)
	r.nudge = nil
}

// Nudging reports whether a tempo ramp is held
func (r *RateController) Nudging() bool {
	return r.nudge != nil
}

// Advance moves a held tempo ramp up to now
func (r *RateController) Advance(now time.Time) {
	if r.nudge == nil {
		return
	}
	n := r.nudge
	r.tempo = r.clampTempo(NudgeTempo(n.base, n.dir, now.Sub(n.started), r.config.NudgeStep, r.config.NudgeInterval))
}

// SeekRate returns the absolute seek rate for a transport state
func (r *RateController) SeekRate(state State) float64 {
	switch state {
	case Playing:
		return r.config.SeekPlaying
	case Cueing:
		return r.config.SeekCueing
	default:
		return r.config.SeekStopped
	}
}

// SetSeek replaces the override with a seek
func (r *RateController) SetSeek(dir Direction, magnitude float64) {
	r.override = Override{Kind: OverrideSeek, Direction: dir, Magnitude: magnitude}
}

// BeginBend replaces the override with a timed bend starting now
func (r *RateController) BeginBend(dir Direction, now time.Time) {
	r.override = Override{Kind: OverrideBend, Direction: dir, Magnitude: 1, Since: now}
}

// SetPressure replaces the override with a pressure bend
func (r *RateController) SetPressure(dir Direction, force float64) {
	r.override = Override{Kind: OverridePressure, Direction: dir, Magnitude: PressureMultiplier(force)}
}

// Clear removes the override if it is of the given kind
func (r *RateController) Clear(kind OverrideKind) bool {
	if r.override.Kind != kind {
		return false
	}
	r.override = Override{}
	return true
}

// ClearOverride removes whatever override is active
func (r *RateController) ClearOverride() {
	r.override = Override{}
}

// Override returns the active override
func (r *RateController) Override() Override {
	return r.override
}

// Reset returns to tempo 1 with no override or ramp
func (r *RateController) Reset() {
	r.tempo = 1
	r.override = Override{}
	r.nudge = nil
}

// Effective returns the rate to apply to the session at now. With no
// override it is exactly tempo.
func (r *RateController) Effective(now time.Time) float64 {
	o := r.override
	switch o.Kind {
	case OverrideSeek:
		return float64(o.Direction) * o.Magnitude
	case OverrideBend:
		m := BendMultiplier(now.Sub(o.Since), r.config.BendStep, r.config.BendInterval, r.config.BendMax)
		return bend(r.tempo, o.Direction, m)
	case OverridePressure:
		return bend(r.tempo, o.Direction, o.Magnitude)
	default:
		return r.tempo
	}
}

func bend(tempo float64, dir Direction, m float64) float64 {
	if dir < 0 {
		return tempo / m
	}
	return tempo * m
}

// finite reports whether v is neither NaN nor infinite
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
