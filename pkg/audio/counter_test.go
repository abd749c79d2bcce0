// ABOUTME: Tests for the position beacon signal
// ABOUTME: Checks the ramp endpoints and offset conversion
package audio

import "testing"

func TestNewCounterSignal(t *testing.T) {
	lengths := []int{1, 2, 128, 44100 * 120}

	for _, l := range lengths {
		c := NewCounterSignal(l)
		if len(c) != l {
			t.Fatalf("expected length %d, got %d", l, len(c))
		}
		if c[0] != 0 {
			t.Errorf("length %d: expected first value 0, got %f", l, c[0])
		}
		last := c[l-1]
		want := float64(l-1) / float64(l)
		if last != want {
			t.Errorf("length %d: expected last value %v, got %v", l, want, last)
		}
		if last >= 1 {
			t.Errorf("length %d: last value reached 1.0", l)
		}
	}
}

func TestNewCounterSignalEmpty(t *testing.T) {
	if c := NewCounterSignal(0); c != nil {
		t.Errorf("expected nil counter, got length %d", len(c))
	}
}

func TestOffset(t *testing.T) {
	c := NewCounterSignal(1200)
	got := Offset(c[100], 120)
	if got != 10 {
		t.Errorf("expected 10s, got %f", got)
	}
}
