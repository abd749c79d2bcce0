// ABOUTME: Deck application orchestration
// ABOUTME: Wires decoder, engine, output, transport and the control surfaces
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/cuedeck/internal/config"
	"github.com/Resonate-Protocol/cuedeck/internal/engine"
	"github.com/Resonate-Protocol/cuedeck/internal/midi"
	"github.com/Resonate-Protocol/cuedeck/internal/remote"
	"github.com/Resonate-Protocol/cuedeck/internal/transport"
	"github.com/Resonate-Protocol/cuedeck/internal/version"
	"github.com/Resonate-Protocol/cuedeck/internal/wakelock"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio/decode"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio/output"
)

// Config holds deck configuration
type Config struct {
	Settings config.Config

	// Output overrides the device chosen by Settings.Output.Backend
	Output output.Output

	// Inhibitor overrides the D-Bus screensaver inhibitor
	Inhibitor wakelock.Inhibitor

	// OnError receives failures the operator should see, such as a track
	// that would not decode
	OnError func(error)

	// OnWarning receives advisory problems that never block the transport
	OnWarning func(string)
}

// Deck is the running application
type Deck struct {
	config Config
	graph  *engine.Graph
	output output.Output
	ctrl   *transport.Controller
	wake   wakelock.Inhibitor

	remote *remote.Server
	midi   *midi.Input

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// graphEngine adapts the engine graph to the transport's Engine
type graphEngine struct {
	graph *engine.Graph
}

func (e graphEngine) Start(asset *audio.Asset, counter audio.CounterSignal, offset, rate float64, report transport.ReportFunc) (transport.Session, error) {
	s, err := e.graph.Start(asset, counter, offset, rate, engine.ReportFunc(report))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// TransportConfig derives the controller configuration from settings
func TransportConfig(s config.Config) transport.Config {
	t := s.Transport
	cfg := transport.DefaultConfig()
	cfg.Rate = transport.RateConfig{
		TempoMin:      t.TempoMin,
		TempoMax:      t.TempoMax,
		SeekPlaying:   t.SeekPlaying,
		SeekStopped:   t.SeekStopped,
		SeekCueing:    t.SeekCueing,
		BendStep:      t.BendStep,
		BendInterval:  t.BendInterval(),
		BendMax:       t.BendMax,
		NudgeStep:     t.NudgeStep,
		NudgeInterval: t.NudgeInterval(),
	}
	cfg.RampInterval = min(t.BendInterval(), t.NudgeInterval())
	cfg.Debug = s.Debug
	return cfg
}

// New creates a deck. Nothing plays until Start.
func New(cfg Config) (*Deck, error) {
	s := cfg.Settings
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	out := cfg.Output
	if out == nil {
		var err error
		out, err = output.New(s.Output.Backend, s.Output.Buffer(), s.Output.BlockFrames)
		if err != nil {
			return nil, err
		}
	}

	wake := cfg.Inhibitor
	if wake == nil {
		if s.KeepAwake {
			wake = wakelock.New(version.Product)
		} else {
			wake = wakelock.Noop{}
		}
	}

	graph := engine.NewGraph(engine.Config{
		SampleRate:  s.Output.SampleRate,
		BlockFrames: s.Output.BlockFrames,
		Volume:      s.Output.Volume,
		Debug:       s.Debug,
	})

	return &Deck{
		config: cfg,
		graph:  graph,
		output: out,
		ctrl:   transport.New(graphEngine{graph: graph}, TransportConfig(s)),
		wake:   wake,
	}, nil
}

// Start opens the output device, runs the transport and brings up the
// configured surfaces. It returns once everything is running.
func (d *Deck) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return errors.New("deck already started")
	}
	s := d.config.Settings

	if err := d.output.Open(s.Output.SampleRate, 2); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	if err := d.output.Start(engine.NewReader(d.graph)); err != nil {
		d.output.Close()
		return fmt.Errorf("failed to start output: %w", err)
	}
	log.Printf("Output %s at %dHz, %d-frame blocks", s.Output.Backend, s.Output.SampleRate, s.Output.BlockFrames)

	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.ctrl.Run(ctx)
	}()

	if s.Remote.Enabled {
		srv, err := remote.NewServer(d, remote.Config{
			Port:       s.Remote.Port,
			Name:       s.Remote.Name,
			EnableMDNS: s.Remote.MDNS,
			Debug:      s.Debug,
		})
		if err == nil {
			err = srv.Start()
		}
		if err != nil {
			d.warn(fmt.Sprintf("remote surface unavailable: %v", err))
		} else {
			d.remote = srv
		}
	}

	if s.MIDI.Enabled {
		in := midi.NewInput(d, midi.Config{
			Mapping:  s.MIDI.Mapping,
			Channel:  s.MIDI.Channel,
			TempoMin: s.Transport.TempoMin,
			TempoMax: s.Transport.TempoMax,
		}, s.Debug)
		if err := in.Open(s.MIDI.Port); err != nil {
			d.warn(fmt.Sprintf("MIDI input unavailable: %v", err))
		} else {
			d.midi = in
		}
	}

	d.started = true
	return nil
}

// Stop tears everything down in reverse order
func (d *Deck) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	d.started = false

	if d.midi != nil {
		d.midi.Close()
		d.midi = nil
	}
	if d.remote != nil {
		d.remote.Stop()
		d.remote = nil
	}

	d.cancel()
	d.wg.Wait()

	if err := d.output.Close(); err != nil {
		log.Printf("Error closing output: %v", err)
	}
	if err := d.wake.Release(); err != nil {
		log.Printf("Error releasing keep-awake: %v", err)
	}
}

// LoadFile decodes path and loads it. On failure the deck is left unloaded.
func (d *Deck) LoadFile(path string) error {
	asset, err := decode.Load(path)
	if err != nil {
		d.ctrl.Unload()
		if rerr := d.wake.Release(); rerr != nil {
			log.Printf("Error releasing keep-awake: %v", rerr)
		}
		log.Printf("Failed to load %s: %v", path, err)
		if d.config.OnError != nil {
			d.config.OnError(err)
		}
		return err
	}

	d.LoadAsset(asset)
	return nil
}

// LoadAsset loads an already decoded asset
func (d *Deck) LoadAsset(asset *audio.Asset) {
	d.ctrl.Load(asset)

	if err := d.wake.Acquire("Playing " + asset.Name); err != nil {
		msg := fmt.Sprintf("keep-awake not granted: %v", err)
		if errors.Is(err, wakelock.ErrPermissionDenied) {
			msg = "keep-awake refused by the desktop; the screen may lock during playback"
		}
		d.warn(msg)
	}
}

// Apply performs an operator gesture
func (d *Deck) Apply(g transport.Gesture) error {
	return d.ctrl.Apply(g)
}

// Snapshot returns the current deck state
func (d *Deck) Snapshot() transport.Snapshot {
	return d.ctrl.Snapshot()
}

// Controller exposes the transport
func (d *Deck) Controller() *transport.Controller {
	return d.ctrl
}

// Graph exposes the engine graph
func (d *Deck) Graph() *engine.Graph {
	return d.graph
}

// Remote returns the remote server, or nil when it is not running
func (d *Deck) Remote() *remote.Server {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remote
}

func (d *Deck) warn(msg string) {
	log.Printf("Warning: %s", msg)
	if d.config.OnWarning != nil {
		d.config.OnWarning(msg)
	}
}
