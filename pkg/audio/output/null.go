// ABOUTME: Headless output that pulls audio at real-time pace and discards it
// ABOUTME: Used by the probe tool and when no audio device is available
package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Null pulls one block per block period from its source, like a sound card
// would, and throws the samples away
type Null struct {
	blockFrames int
	sampleRate  int
	channels    int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	frames atomic.Int64
}

// NewNull creates a null output pulling blockFrames per tick
func NewNull(blockFrames int) *Null {
	if blockFrames <= 0 {
		blockFrames = 128
	}
	return &Null{blockFrames: blockFrames}
}

// Open records the stream format
func (n *Null) Open(sampleRate, channels int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid format: %dHz %dch", sampleRate, channels)
	}
	n.sampleRate = sampleRate
	n.channels = channels
	return nil
}

// Start begins the paced pull loop
func (n *Null) Start(src io.Reader) error {
	if n.sampleRate == 0 {
		return fmt.Errorf("output not initialized")
	}
	if n.cancel != nil {
		return fmt.Errorf("output already started")
	}

	n.ctx, n.cancel = context.WithCancel(context.Background())
	period := time.Duration(n.blockFrames) * time.Second / time.Duration(n.sampleRate)
	buf := make([]byte, n.blockFrames*n.channels*2)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				read, err := io.ReadFull(src, buf)
				n.frames.Add(int64(read / (n.channels * 2)))
				if err != nil {
					log.Printf("Null output source error: %v", err)
					return
				}
			case <-n.ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Frames returns how many frames have been pulled so far
func (n *Null) Frames() int64 {
	return n.frames.Load()
}

// Close stops the pull loop
func (n *Null) Close() error {
	if n.cancel != nil {
		n.cancel()
		n.wg.Wait()
	}
	return nil
}
