// ABOUTME: Position-reporting processing unit that runs on the render thread
// ABOUTME: Forwards the last beacon sample of every block to the controller
package engine

import (
	"sync/atomic"

	"github.com/faiface/beep"
)

// ReportFunc receives one beacon value per rendered block, tagged with the
// id of the session that produced it. It is called on the render thread and
// must not block.
type ReportFunc func(session uint64, value float64)

// Beacon wraps the counter voice. Each Stream call is one processing block:
// it pulls the block through and reports the block's final sample. Once
// detached it keeps passing samples through but never reports again.
type Beacon struct {
	src      beep.Streamer
	session  uint64
	report   ReportFunc
	detached atomic.Bool
	blocks   atomic.Uint64
}

// NewBeacon wraps src and reports into fn under the given session id
func NewBeacon(src beep.Streamer, session uint64, fn ReportFunc) *Beacon {
	return &Beacon{
		src:     src,
		session: session,
		report:  fn,
	}
}

// Stream renders one block and reports its last sample
func (b *Beacon) Stream(samples [][2]float64) (int, bool) {
	n, ok := b.src.Stream(samples)
	if n > 0 && b.report != nil && !b.detached.Load() {
		b.blocks.Add(1)
		b.report(b.session, samples[n-1][0])
	}
	return n, ok
}

// Err returns the wrapped streamer's error
func (b *Beacon) Err() error {
	return b.src.Err()
}

// Detach stops all further reports
func (b *Beacon) Detach() {
	b.detached.Store(true)
}

// Blocks returns how many blocks have been reported
func (b *Beacon) Blocks() uint64 {
	return b.blocks.Load()
}
