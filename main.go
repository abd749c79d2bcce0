// ABOUTME: Entry point for the cuedeck audio deck
// ABOUTME: Parses CLI flags over the config file and runs the chosen surface
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/cuedeck/internal/app"
	"github.com/Resonate-Protocol/cuedeck/internal/config"
	"github.com/Resonate-Protocol/cuedeck/internal/console"
	"github.com/Resonate-Protocol/cuedeck/internal/ui"
	"github.com/Resonate-Protocol/cuedeck/internal/version"
)

var (
	configPath  = flag.String("config", "", "YAML config file")
	track       = flag.String("track", "", "Track to load at startup")
	backend     = flag.String("output", "", "Output backend: oto or null")
	sampleRate  = flag.Int("sample-rate", 0, "Device sample rate")
	bufferMs    = flag.Int("buffer-ms", 0, "Output buffer in milliseconds")
	logFile     = flag.String("log-file", "", "Log file path")
	useConsole  = flag.Bool("console", false, "Use the line console instead of the TUI")
	noTUI       = flag.Bool("no-tui", false, "Run without a terminal surface, logs to stdout")
	remoteOn    = flag.Bool("remote", false, "Enable the websocket remote surface")
	remotePort  = flag.Int("port", 0, "Remote surface port")
	name        = flag.String("name", "", "Deck name for the remote surface and mDNS")
	midiPort    = flag.String("midi", "", "Open the MIDI input whose name starts with this")
	noKeepAwake = flag.Bool("no-keep-awake", false, "Do not inhibit the screensaver")
	debug       = flag.Bool("debug", false, "Verbose logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	applyFlags(&settings)
	if err := settings.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Set up logging
	f, err := os.OpenFile(settings.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if settings.Surface == config.SurfaceTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s", version.String())

	// Send blocks until the program runs, so notices are delivered async
	var tuiProg *tea.Program
	notify := func(msg ui.NoticeMsg) {
		if tuiProg != nil {
			go tuiProg.Send(msg)
		}
	}

	deck, err := app.New(app.Config{
		Settings:  settings,
		OnError:   func(err error) { notify(ui.NoticeMsg{Text: err.Error(), Error: true}) },
		OnWarning: func(msg string) { notify(ui.NoticeMsg{Text: msg}) },
	})
	if err != nil {
		log.Fatalf("Failed to create deck: %v", err)
	}

	if settings.Surface == config.SurfaceTUI {
		tuiProg = ui.NewProgram(ui.NewModel(deck, settings.Transport.ScrubStep))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := deck.Start(ctx); err != nil {
		log.Fatalf("Failed to start deck: %v", err)
	}

	if *track != "" {
		if err := deck.LoadFile(*track); err != nil {
			log.Printf("Could not load %s: %v", *track, err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch settings.Surface {
	case config.SurfaceTUI:
		go func() {
			<-sigChan
			log.Printf("Shutdown signal received")
			tuiProg.Quit()
		}()
		if _, err := tuiProg.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}

	case config.SurfaceConsole:
		go func() {
			<-sigChan
			log.Printf("Shutdown signal received")
			cancel()
		}()
		if err := console.New(deck, os.Stdout).Run(ctx); err != nil {
			log.Printf("Console error: %v", err)
		}

	default:
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	deck.Stop()
	log.Printf("Deck stopped")
}

// applyFlags overlays flags the user set explicitly onto the loaded settings
func applyFlags(s *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			s.Output.Backend = *backend
		case "sample-rate":
			s.Output.SampleRate = *sampleRate
		case "buffer-ms":
			s.Output.BufferMs = *bufferMs
		case "log-file":
			s.LogFile = *logFile
		case "console":
			if *useConsole {
				s.Surface = config.SurfaceConsole
			}
		case "no-tui":
			if *noTUI {
				s.Surface = config.SurfaceNone
			}
		case "remote":
			s.Remote.Enabled = *remoteOn
		case "port":
			s.Remote.Port = *remotePort
		case "name":
			s.Remote.Name = *name
		case "midi":
			s.MIDI.Enabled = true
			s.MIDI.Port = *midiPort
		case "no-keep-awake":
			s.KeepAwake = !*noKeepAwake
		case "debug":
			s.Debug = *debug
		}
	})
}
