// ABOUTME: Tests for the rate controller and its ramp functions
// ABOUTME: The ramps are pure, so they are checked directly against elapsed time
package transport

import (
	"math"
	"testing"
	"time"
)

func TestBendMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		expected float64
	}{
		{"not yet", 0, 1},
		{"before first step", 29 * time.Millisecond, 1},
		{"one step", 30 * time.Millisecond, 1.005},
		{"three steps", 95 * time.Millisecond, 1.015},
		{"clamped", 10 * time.Second, 2},
		{"negative elapsed", -time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BendMultiplier(tt.elapsed, 0.005, 30*time.Millisecond, 2)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestPressureMultiplier(t *testing.T) {
	tests := []struct {
		force    float64
		expected float64
	}{
		{1, 1},
		{2, 1.5},
		{3, 2},
		{0.5, 0.75},
		{9, 2},
		{-1, 0.5},
	}

	for _, tt := range tests {
		if got := PressureMultiplier(tt.force); got != tt.expected {
			t.Errorf("force %f: expected %f, got %f", tt.force, tt.expected, got)
		}
	}
}

func TestNudgeTempo(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		elapsed  time.Duration
		expected float64
	}{
		{"idle", Forward, 0, 1},
		{"up two", Forward, 100 * time.Millisecond, 1.002},
		{"down four", Backward, 210 * time.Millisecond, 0.996},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NudgeTempo(1, tt.dir, tt.elapsed, 0.001, 50*time.Millisecond)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestRateControllerEffective(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRateController(DefaultRateConfig())
	r.SetTempo(1.04)

	if r.Effective(start) != 1.04 {
		t.Errorf("expected tempo with no override, got %f", r.Effective(start))
	}

	r.SetSeek(Backward, r.SeekRate(Playing))
	if r.Effective(start) != -3 {
		t.Errorf("expected -3 seek, got %f", r.Effective(start))
	}

	r.BeginBend(Forward, start)
	if r.Override().Kind != OverrideBend {
		t.Errorf("expected bend to replace seek, got %s", r.Override().Kind)
	}
	if got := r.Effective(start.Add(60 * time.Millisecond)); math.Abs(got-1.04*1.01) > 1e-12 {
		t.Errorf("expected %f, got %f", 1.04*1.01, got)
	}

	if r.Clear(OverrideSeek) {
		t.Error("expected clearing an inactive kind to do nothing")
	}
	if !r.Clear(OverrideBend) {
		t.Error("expected bend to clear")
	}
	if r.Effective(start) != 1.04 {
		t.Errorf("expected exactly tempo after clear, got %v", r.Effective(start))
	}
}

func TestSeekRatePerState(t *testing.T) {
	r := NewRateController(DefaultRateConfig())

	tests := []struct {
		state    State
		expected float64
	}{
		{Stopped, 6},
		{Playing, 3},
		{Cueing, 1},
	}
	for _, tt := range tests {
		if got := r.SeekRate(tt.state); got != tt.expected {
			t.Errorf("%s: expected %f, got %f", tt.state, tt.expected, got)
		}
	}
}

func TestRateControllerReset(t *testing.T) {
	now := time.Now()
	r := NewRateController(DefaultRateConfig())
	r.SetTempo(1.1)
	r.SetPressure(Forward, 2)
	r.BeginNudge(Backward, now)

	r.Reset()
	if r.Tempo() != 1 || r.Override().Kind != OverrideNone || r.Nudging() {
		t.Errorf("expected clean controller, got tempo %f override %s nudging %v",
			r.Tempo(), r.Override().Kind, r.Nudging())
	}
}

func TestSetTempoCancelsNudge(t *testing.T) {
	now := time.Now()
	r := NewRateController(DefaultRateConfig())
	r.BeginNudge(Forward, now)
	r.SetTempo(0.95)
	r.Advance(now.Add(time.Second))

	if r.Tempo() != 0.95 {
		t.Errorf("expected fader to win over nudge, got %f", r.Tempo())
	}
}

func TestStrings(t *testing.T) {
	if Playing.String() != "PLAYING" || Cueing.String() != "CUEING" || Stopped.String() != "STOPPED" {
		t.Error("unexpected state names")
	}
	if Forward.String() != "+" || Backward.String() != "-" {
		t.Error("unexpected direction names")
	}
	if OverridePressure.String() != "pressure" || OverrideNone.String() != "none" {
		t.Error("unexpected override names")
	}
}
