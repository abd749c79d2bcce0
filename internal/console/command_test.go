// ABOUTME: Tests for console command parsing
// ABOUTME: Table-driven over every command form and its error cases
package console

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

func TestParseGestures(t *testing.T) {
	tests := []struct {
		line string
		want []transport.Gesture
	}{
		{"play", []transport.Gesture{{Kind: transport.GesturePlay}}},
		{"  PLAY  ", []transport.Gesture{{Kind: transport.GesturePlay}}},
		{"cue down", []transport.Gesture{{Kind: transport.GestureCueDown}}},
		{"cue up", []transport.Gesture{{Kind: transport.GestureCueUp}}},
		{"setcue", []transport.Gesture{{Kind: transport.GestureSetCue}}},
		{"seek -", []transport.Gesture{{Kind: transport.GestureSeekDown, Direction: transport.Backward}}},
		{"seek up", []transport.Gesture{{Kind: transport.GestureSeekUp}}},
		{"bend +", []transport.Gesture{{Kind: transport.GestureBendDown, Direction: transport.Forward}}},
		{"bend up", []transport.Gesture{{Kind: transport.GestureBendUp}}},
		{"nudge -", []transport.Gesture{{Kind: transport.GestureNudgeDown, Direction: transport.Backward}}},
		{"nudge up", []transport.Gesture{{Kind: transport.GestureNudgeUp}}},
		{"tempo 1.04", []transport.Gesture{{Kind: transport.GestureTempo, Value: 1.04}}},
		{"scrub 42.5", []transport.Gesture{{Kind: transport.GestureScrub, Value: 42.5}}},
		{"pressure + 2", []transport.Gesture{
			{Kind: transport.GesturePressureBegin},
			{Kind: transport.GesturePressure, Direction: transport.Forward, Value: 2},
		}},
		{"pressure - 0", []transport.Gesture{{Kind: transport.GesturePressure, Direction: transport.Backward}}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Action != ActionNone {
				t.Errorf("expected no action, got %d", cmd.Action)
			}
			if len(cmd.Gestures) != len(tt.want) {
				t.Fatalf("expected %d gestures, got %d", len(tt.want), len(cmd.Gestures))
			}
			for i := range tt.want {
				if cmd.Gestures[i] != tt.want[i] {
					t.Errorf("gesture %d: expected %v, got %v", i, tt.want[i], cmd.Gestures[i])
				}
			}
		})
	}
}

func TestParseActions(t *testing.T) {
	tests := []struct {
		line   string
		action Action
		path   string
	}{
		{"", ActionNone, ""},
		{"status", ActionStatus, ""},
		{"help", ActionHelp, ""},
		{"quit", ActionQuit, ""},
		{"exit", ActionQuit, ""},
		{"load /music/My Track.flac", ActionLoad, "/music/My Track.flac"},
	}

	for _, tt := range tests {
		cmd, err := Parse(tt.line)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.line, err)
		}
		if cmd.Action != tt.action {
			t.Errorf("%q: expected action %d, got %d", tt.line, tt.action, cmd.Action)
		}
		if cmd.Path != tt.path {
			t.Errorf("%q: expected path %q, got %q", tt.line, tt.path, cmd.Path)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"eject", ErrUnknownCommand},
		{"load", ErrUsage},
		{"cue", ErrUsage},
		{"seek left", ErrUsage},
		{"pressure +", ErrUsage},
		{"pressure + -1", ErrUsage},
		{"pressure up 1", ErrUsage},
		{"tempo fast", ErrUsage},
		{"tempo 0", ErrUsage},
		{"scrub", ErrUsage},
		{"scrub NaN", ErrUsage},
		{"scrub inf", ErrUsage},
		{"tempo NaN", ErrUsage},
		{"tempo +Inf", ErrUsage},
		{"pressure + NaN", ErrUsage},
		{"pressure - inf", ErrUsage},
	}

	for _, tt := range tests {
		_, err := Parse(tt.line)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.line, tt.want, err)
		}
	}
}
