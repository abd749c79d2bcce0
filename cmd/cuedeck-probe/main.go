// ABOUTME: Headless probe that checks beacon position against wall time
// ABOUTME: Plays a track or tone through the null output and prints drift
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Resonate-Protocol/cuedeck/internal/app"
	"github.com/Resonate-Protocol/cuedeck/internal/config"
	"github.com/Resonate-Protocol/cuedeck/internal/discovery"
	"github.com/Resonate-Protocol/cuedeck/internal/transport"
	"github.com/Resonate-Protocol/cuedeck/internal/wakelock"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
)

var (
	track      = flag.String("track", "", "Track to play (default: generated tone)")
	toneHz     = flag.Float64("tone-hz", 440, "Test tone frequency")
	toneLength = flag.Float64("tone-seconds", 60, "Test tone length in seconds")
	offset     = flag.Float64("offset", 0, "Start offset in seconds")
	tempo      = flag.Float64("tempo", 1, "Playback tempo")
	runFor     = flag.Duration("duration", 5*time.Second, "How long to play")
	interval   = flag.Duration("interval", 500*time.Millisecond, "Report interval")
	blockSize  = flag.Int("block", 128, "Processing block in frames")
	sampleRate = flag.Int("sample-rate", 48000, "Device sample rate")
	discover   = flag.Bool("discover", false, "List decks on the network and exit")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *discover {
		listDecks()
		return
	}

	settings := config.Default()
	settings.Surface = config.SurfaceNone
	settings.Output.Backend = "null"
	settings.Output.BlockFrames = *blockSize
	settings.Output.SampleRate = *sampleRate
	settings.KeepAwake = false
	settings.Transport.TempoMin = min(settings.Transport.TempoMin, *tempo)
	settings.Transport.TempoMax = max(settings.Transport.TempoMax, *tempo)

	deck, err := app.New(app.Config{Settings: settings, Inhibitor: wakelock.Noop{}})
	if err != nil {
		log.Fatalf("Failed to create deck: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := deck.Start(ctx); err != nil {
		log.Fatalf("Failed to start deck: %v", err)
	}
	defer deck.Stop()

	if *track != "" {
		if err := deck.LoadFile(*track); err != nil {
			log.Fatalf("Failed to load %s: %v", *track, err)
		}
	} else {
		deck.LoadAsset(audio.Tone(*toneHz, *toneLength, *sampleRate))
	}

	apply := func(g transport.Gesture) {
		if err := deck.Apply(g); err != nil {
			log.Fatalf("Gesture %s failed: %v", g, err)
		}
	}
	apply(transport.Gesture{Kind: transport.GestureScrub, Value: *offset})
	apply(transport.Gesture{Kind: transport.GestureTempo, Value: *tempo})

	snap := deck.Snapshot()
	fmt.Printf("=== cuedeck probe ===\n")
	fmt.Printf("Asset:  %s (%.2fs)\n", snap.AssetName, snap.Duration)
	fmt.Printf("Device: %dHz, %d-frame blocks (%v per block)\n",
		*sampleRate, *blockSize, deck.Graph().BlockDuration())
	fmt.Printf("Start:  %.3fs at tempo %.3f\n\n", snap.PausePoint, snap.Tempo)
	fmt.Printf("%10s %12s %12s %10s\n", "elapsed", "beacon", "expected", "drift")

	start := time.Now()
	apply(transport.Gesture{Kind: transport.GesturePlay})

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	deadline := time.After(*runFor)

	var worst time.Duration
	for {
		select {
		case <-ticker.C:
			elapsed := time.Since(start)
			snap := deck.Snapshot()
			expected := min(*offset+elapsed.Seconds()*snap.Tempo, snap.Duration)
			drift := time.Duration((snap.Position - expected) * float64(time.Second))
			if drift.Abs() > worst {
				worst = drift.Abs()
			}
			fmt.Printf("%10s %11.3fs %11.3fs %9.1fms\n",
				elapsed.Round(time.Millisecond), snap.Position, expected, float64(drift)/float64(time.Millisecond))

		case <-deadline:
			apply(transport.Gesture{Kind: transport.GesturePlay})
			accepted, stale := deck.Controller().Tracker().Stats()
			fmt.Printf("\nPaused at %.3fs; worst drift %v\n", deck.Snapshot().PausePoint, worst.Round(100*time.Microsecond))
			fmt.Printf("Beacon reports: %d accepted, %d stale\n", accepted, stale)
			return
		}
	}
}

func listDecks() {
	decks, err := discovery.Lookup(context.Background(), 3*time.Second)
	if err != nil {
		log.Printf("Lookup failed: %v", err)
	}
	if len(decks) == 0 {
		fmt.Println("No decks found")
		os.Exit(1)
	}
	for _, d := range decks {
		fmt.Printf("%-24s %s (v%s)\n", d.Name, d.URL(), d.Version)
	}
}
