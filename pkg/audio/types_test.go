// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion and asset duration helpers
package audio

import (
	"math"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float64
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, 32767},
		{"negative full scale", -1, -32767},
		{"clipped high", 1.5, 32767},
		{"clipped low", -2, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromInt(t *testing.T) {
	tests := []struct {
		name     string
		sample   int
		bitDepth int
		expected float64
	}{
		{"16 bit half", 16384, 16, 0.5},
		{"24 bit half", 4194304, 24, 0.5},
		{"8 bit negative", -64, 8, -0.5},
		{"invalid depth", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt(tt.sample, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestAssetDuration(t *testing.T) {
	a := &Asset{Frames: make([][2]float64, 44100*3), SampleRate: 44100}

	if a.Len() != 132300 {
		t.Errorf("expected 132300 frames, got %d", a.Len())
	}
	if math.Abs(a.Duration()-3) > 1e-9 {
		t.Errorf("expected 3s, got %f", a.Duration())
	}
	if a.Length() != 3*time.Second {
		t.Errorf("expected 3s, got %v", a.Length())
	}

	var empty *Asset
	if empty.Duration() != 0 {
		t.Errorf("expected nil asset duration 0, got %f", empty.Duration())
	}
}
