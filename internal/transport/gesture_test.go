// ABOUTME: Tests for gesture validation and dispatch
// ABOUTME: Drives the controller through Apply the way surfaces do
package transport

import (
	"errors"
	"math"
	"testing"
)

func TestGestureValidate(t *testing.T) {
	tests := []struct {
		name    string
		gesture Gesture
		wantErr bool
	}{
		{"play", Gesture{Kind: GesturePlay}, false},
		{"scrub", Gesture{Kind: GestureScrub, Value: 12}, false},
		{"seek forward", Gesture{Kind: GestureSeekDown, Direction: Forward}, false},
		{"seek no direction", Gesture{Kind: GestureSeekDown}, true},
		{"bend sideways", Gesture{Kind: GestureBendDown, Direction: 2}, true},
		{"pressure backward", Gesture{Kind: GesturePressure, Direction: Backward, Value: 2}, false},
		{"scrub NaN", Gesture{Kind: GestureScrub, Value: math.NaN()}, true},
		{"tempo infinite", Gesture{Kind: GestureTempo, Value: math.Inf(1)}, true},
		{"pressure NaN", Gesture{Kind: GesturePressure, Direction: Forward, Value: math.NaN()}, true},
		{"unknown", Gesture{Kind: "eject"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gesture.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyUnknownGesture(t *testing.T) {
	c, _, _ := newTestController()
	err := c.Apply(Gesture{Kind: "eject"})
	if !errors.Is(err, ErrUnknownGesture) {
		t.Errorf("expected ErrUnknownGesture, got %v", err)
	}
}

func TestApplyCueScenario(t *testing.T) {
	c, eng, _ := newTestController()
	c.Load(testAsset(120))

	steps := []Gesture{
		{Kind: GesturePlay},
		{Kind: GestureSetCue},
		{Kind: GesturePlay},
		{Kind: GestureCueDown},
	}

	for i, g := range steps {
		if err := c.Apply(g); err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
		if i == 0 {
			eng.emit(10, 120)
		}
	}

	if c.State() != Cueing {
		t.Fatalf("expected CUEING, got %s", c.State())
	}
	if err := c.Apply(Gesture{Kind: GestureCueUp}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	snap := c.Snapshot()
	if snap.State != Stopped || !near(snap.PausePoint, 10) {
		t.Errorf("expected STOPPED at 10, got %s at %f", snap.State, snap.PausePoint)
	}
}

func TestApplyTempoAndScrub(t *testing.T) {
	c, _, _ := newTestController()
	c.Load(testAsset(60))

	if err := c.Apply(Gesture{Kind: GestureTempo, Value: 1.5}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := c.Snapshot().Tempo; got != 1.1 {
		t.Errorf("expected clamped tempo 1.1, got %f", got)
	}

	if err := c.Apply(Gesture{Kind: GestureScrub, Value: 30}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := c.Snapshot().PausePoint; !near(got, 30) {
		t.Errorf("expected pause 30, got %f", got)
	}
}

func TestGestureString(t *testing.T) {
	tests := []struct {
		gesture Gesture
		want    string
	}{
		{Gesture{Kind: GesturePlay}, "play"},
		{Gesture{Kind: GestureSeekDown, Direction: Backward}, "seek_down(-)"},
		{Gesture{Kind: GestureScrub, Value: 1.5}, "scrub(1.500)"},
	}

	for _, tt := range tests {
		if got := tt.gesture.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
