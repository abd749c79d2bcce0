// ABOUTME: MIDI input surface that applies mapped gestures to the deck
// ABOUTME: Port opening is driver specific and lives behind a cgo build tag
package midi

import (
	"errors"
	"log"
	"sync"

	"gitlab.com/gomidi/midi/v2"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

// ErrNoMIDI is returned when the binary was built without a MIDI driver
var ErrNoMIDI = errors.New("midi: not available in this build")

// ErrNoPort is returned when no input port matches the configured name
var ErrNoPort = errors.New("midi: no matching input port")

// Deck receives gestures
type Deck interface {
	Apply(g transport.Gesture) error
}

// Input applies messages from one MIDI port to a deck
type Input struct {
	deck   Deck
	mapper *Mapper
	debug  bool

	mu   sync.Mutex
	stop func()
	port string
}

// NewInput creates an input; nothing is received until Open
func NewInput(deck Deck, config Config, debug bool) *Input {
	return &Input{deck: deck, mapper: NewMapper(config), debug: debug}
}

// Handle processes one message. It is the listener callback and is safe to
// call directly.
func (in *Input) Handle(msg midi.Message, timestampms int32) {
	in.mu.Lock()
	gestures := in.mapper.Translate(msg)
	in.mu.Unlock()

	for _, g := range gestures {
		if in.debug {
			log.Printf("MIDI %s -> %s", msg, g)
		}
		if err := in.deck.Apply(g); err != nil {
			log.Printf("MIDI gesture rejected: %v", err)
		}
	}
}

// Port returns the name of the open port, if any
func (in *Input) Port() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.port
}

// Close stops listening
func (in *Input) Close() {
	in.mu.Lock()
	stop := in.stop
	in.stop = nil
	in.port = ""
	in.mu.Unlock()

	if stop != nil {
		stop()
	}
}
