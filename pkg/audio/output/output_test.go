// ABOUTME: Audio output tests
// ABOUTME: Verifies backend selection and the paced null output
package output

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
	var _ Output = (*Null)(nil)
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend   string
		expectErr bool
	}{
		{BackendOto, false},
		{"", false},
		{BackendNull, false},
		{"portaudio", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			out, err := New(tt.backend, 50*time.Millisecond, 128)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out == nil {
				t.Fatal("expected output to be created")
			}
		})
	}
}

type countingReader struct {
	reads atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads.Add(1)
	return len(p), nil
}

func TestNullPullsAtBlockPace(t *testing.T) {
	n := NewNull(100)
	if err := n.Open(10000, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := &countingReader{}
	if err := n.Start(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.Start(src); err == nil {
		t.Error("expected error on second start")
	}

	time.Sleep(100 * time.Millisecond)
	if err := n.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10ms blocks over 100ms
	reads := src.reads.Load()
	if reads < 3 || reads > 12 {
		t.Errorf("expected roughly 10 block reads, got %d", reads)
	}
	if n.Frames() != reads*100 {
		t.Errorf("expected %d frames, got %d", reads*100, n.Frames())
	}
}

func TestNullRequiresOpen(t *testing.T) {
	n := NewNull(128)
	if err := n.Start(&countingReader{}); err == nil {
		t.Error("expected error starting before open")
	}
	if err := n.Open(0, 2); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestOtoStartBeforeOpen(t *testing.T) {
	o := NewOto(0)
	if err := o.Start(&countingReader{}); err == nil {
		t.Error("expected error starting before open")
	}
	if err := o.Close(); err != nil {
		t.Errorf("expected close of unopened output to succeed, got %v", err)
	}
}
