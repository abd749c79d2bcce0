// ABOUTME: Oto-based audio output implementation
// ABOUTME: A persistent oto player pulls the engine graph through a reader
package output

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	buffer     time.Duration
	sampleRate int
	channels   int
	ready      bool
}

// NewOto creates a new Oto output with the given device buffer
func NewOto(buffer time.Duration) *Oto {
	return &Oto{buffer: buffer}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	// oto allows one context per process
	if o.otoCtx != nil {
		if o.sampleRate != sampleRate || o.channels != channels {
			log.Printf("Warning: oto context already running at %dHz %dch, ignoring %dHz %dch",
				o.sampleRate, o.channels, sampleRate, channels)
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   o.buffer,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels, buffer %v", sampleRate, channels, o.buffer)
	return nil
}

// Start begins pulling audio from src
func (o *Oto) Start(src io.Reader) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}
	if o.player != nil {
		return fmt.Errorf("output already started")
	}

	o.player = o.otoCtx.NewPlayer(src)
	if o.buffer > 0 {
		// 2 bytes per sample
		o.player.SetBufferSize(int(o.buffer.Seconds()*float64(o.sampleRate)) * o.channels * 2)
	}
	o.player.Play()
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Error closing oto player: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
		o.ready = false
	}
	return nil
}
