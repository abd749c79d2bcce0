// ABOUTME: Real-time playback graph pulled by the output device
// ABOUTME: Hosts at most one session behind a beep mixer and master gain
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

const (
	// DefaultSampleRate is the device rate the graph renders at
	DefaultSampleRate = 48000

	// DefaultBlockFrames is the size of one processing block
	DefaultBlockFrames = 128
)

var (
	// ErrNoAsset is returned when a session is requested without audio
	ErrNoAsset = errors.New("no asset loaded")

	// ErrCounterMismatch is returned when the beacon length differs from the asset
	ErrCounterMismatch = errors.New("counter length does not match asset")
)

// Config holds graph configuration
type Config struct {
	SampleRate  int
	BlockFrames int

	// Volume is the master gain exponent, base 2. 0 is unity.
	Volume float64

	Debug bool
}

// Graph is the root streamer of the engine. The output device pulls from
// Stream on its own thread; session changes take the same lock, so a
// stopped session is never rendered again once Stop returns.
type Graph struct {
	config Config

	mu     sync.Mutex
	mixer  beep.Mixer
	master *effects.Volume
	active *Session
	nextID uint64
}

// NewGraph creates an empty graph
func NewGraph(config Config) *Graph {
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultSampleRate
	}
	if config.BlockFrames <= 0 {
		config.BlockFrames = DefaultBlockFrames
	}

	g := &Graph{config: config}
	g.master = &effects.Volume{
		Streamer: &g.mixer,
		Base:     2,
		Volume:   config.Volume,
	}
	return g
}

// SampleRate returns the device rate the graph renders at
func (g *Graph) SampleRate() beep.SampleRate {
	return beep.SampleRate(g.config.SampleRate)
}

// BlockDuration returns the wall time covered by one processing block
func (g *Graph) BlockDuration() time.Duration {
	return g.SampleRate().D(g.config.BlockFrames)
}

// Start tears down any running session and starts a new one at offset
// seconds into the asset, playing at rate. report receives beacon values.
func (g *Graph) Start(asset *audio.Asset, counter audio.CounterSignal, offset, rate float64, report ReportFunc) (*Session, error) {
	if asset == nil || asset.Len() == 0 {
		return nil, ErrNoAsset
	}
	if len(counter) != asset.Len() {
		return nil, fmt.Errorf("%w: %d != %d", ErrCounterMismatch, len(counter), asset.Len())
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != nil {
		g.active.stopped.Store(true)
		g.detachLocked(g.active)
	}

	g.nextID++
	counterVoice := newCounterVoice(counter, asset.SampleRate, g.config.SampleRate, offset)
	s := &Session{
		id:          g.nextID,
		graph:       g,
		audio:       newAssetVoice(asset, g.config.SampleRate, offset),
		counter:     counterVoice,
		beacon:      NewBeacon(counterVoice, g.nextID, report),
		scratch:     make([][2]float64, g.config.BlockFrames),
		blockFrames: g.config.BlockFrames,
		offset:      offset,
	}
	s.rate.Store(rate)

	g.active = s
	g.mixer.Add(s)

	if g.config.Debug {
		log.Printf("Session %d started at %.3fs, rate %.3f", s.id, offset, rate)
	}
	return s, nil
}

// disconnect removes s if it is still the active session
func (g *Graph) disconnect(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active != s {
		s.beacon.Detach()
		return
	}
	g.detachLocked(s)
}

// detachLocked unhooks the beacon first, then the sources
func (g *Graph) detachLocked(s *Session) {
	s.beacon.Detach()
	g.mixer.Clear()
	g.active = nil

	if g.config.Debug {
		log.Printf("Session %d stopped after %d blocks", s.id, s.beacon.Blocks())
	}
}

// Active returns the number of sessions currently wired into the graph
func (g *Graph) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mixer.Len()
}

// Stream renders the mix; silence when no session is active
func (g *Graph) Stream(samples [][2]float64) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.master.Stream(samples)
}

// Err always returns nil
func (g *Graph) Err() error {
	return nil
}
