// ABOUTME: Tests for the PCM byte reader
// ABOUTME: Checks frame packing and silence when the source is drained
package engine

import (
	"encoding/binary"
	"testing"

	"github.com/faiface/beep"
)

func TestReaderPacksFrames(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, -0.5}
		}
		return len(samples), true
	})

	r := NewReader(src)
	p := make([]byte, 18) // 4 whole frames and a partial one
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 16 {
		t.Errorf("expected 16 bytes, got %d", n)
	}

	left := int16(binary.LittleEndian.Uint16(p[0:]))
	right := int16(binary.LittleEndian.Uint16(p[2:]))
	if left != 16384 || right != -16384 {
		t.Errorf("expected 16384/-16384, got %d/%d", left, right)
	}
}

func TestReaderSilenceWhenDrained(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		return 0, false
	})

	r := NewReader(src)
	p := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, err := r.Read(p)
	if err != nil || n != 8 {
		t.Fatalf("expected 8 bytes and no error, got %d %v", n, err)
	}
	for i, b := range p {
		if b != 0 {
			t.Errorf("expected silence at byte %d, got %d", i, b)
		}
	}
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader(beep.Silence(-1))
	n, err := r.Read(make([]byte, 3))
	if n != 0 || err != nil {
		t.Errorf("expected 0 bytes and no error, got %d %v", n, err)
	}
}
