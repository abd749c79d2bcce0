// ABOUTME: Adapts a beep streamer into an io.Reader of 16-bit PCM bytes
// ABOUTME: Output devices pull the graph through this reader
package engine

import (
	"encoding/binary"
	"sync"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/faiface/beep"
)

const bytesPerFrame = 4 // 2 channels * 16-bit

// Reader renders a streamer into interleaved signed 16-bit little-endian
// stereo. It never returns io.EOF; a drained streamer reads as silence.
type Reader struct {
	mu     sync.Mutex
	source beep.Streamer
	buf    [][2]float64
}

// NewReader creates a PCM reader over source
func NewReader(source beep.Streamer) *Reader {
	return &Reader{source: source}
}

// Read fills p with whole frames
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	r.buf = r.buf[:frames]

	n, _ := r.source.Stream(r.buf)
	for i := n; i < frames; i++ {
		r.buf[i] = [2]float64{}
	}

	for i, frame := range r.buf {
		binary.LittleEndian.PutUint16(p[i*4:], uint16(audio.SampleToInt16(frame[0])))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(audio.SampleToInt16(frame[1])))
	}
	return frames * bytesPerFrame, nil
}

// Close is a no-op so the reader can be handed to players that close sources
func (r *Reader) Close() error {
	return nil
}
