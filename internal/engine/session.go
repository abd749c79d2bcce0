// ABOUTME: A playback session pairs the asset voice with its position beacon
// ABOUTME: Both voices start at the same offset and read one shared rate cell
package engine

import (
	"sync/atomic"
)

// Session is one live wiring of an asset and its counter into the graph.
// A session is never restarted; seeking or cueing builds a new one.
type Session struct {
	id          uint64
	graph       *Graph
	rate        rateCell
	audio       *voice
	counter     *voice
	beacon      *Beacon
	scratch     [][2]float64
	blockFrames int
	offset      float64
	stopped     atomic.Bool
}

// ID returns the monotonically increasing session id
func (s *Session) ID() uint64 {
	return s.id
}

// Offset returns the asset offset in seconds the session started at
func (s *Session) Offset() float64 {
	return s.offset
}

// SetRate sets the playback rate for both the audio and the beacon voice
func (s *Session) SetRate(rate float64) {
	s.rate.Store(rate)
}

// Rate returns the current playback rate
func (s *Session) Rate() float64 {
	return s.rate.Load()
}

// Stop detaches the beacon and removes the session from the graph. After
// Stop returns no further position reports are made for this session.
func (s *Session) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.graph.disconnect(s)
}

// Stopped reports whether Stop has been called
func (s *Session) Stopped() bool {
	return s.stopped.Load()
}

// Stream renders samples in fixed blocks. Both voices see the same rate
// for a block; the rate is sampled once at the start of each block.
func (s *Session) Stream(samples [][2]float64) (int, bool) {
	for off := 0; off < len(samples); off += s.blockFrames {
		end := off + s.blockFrames
		if end > len(samples) {
			end = len(samples)
		}
		block := samples[off:end]

		rate := s.rate.Load()
		s.audio.rate = rate
		s.counter.rate = rate

		n, _ := s.audio.Stream(block)
		for i := n; i < len(block); i++ {
			block[i] = [2]float64{}
		}

		s.beacon.Stream(s.scratch[:len(block)])
	}
	return len(samples), true
}

// Err always returns nil; sessions run until stopped
func (s *Session) Err() error {
	return nil
}
