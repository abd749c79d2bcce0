//go:build cgo

// ABOUTME: MIDI port access through the rtmidi driver
// ABOUTME: Only built with cgo since rtmidi is a C++ library
package midi

import (
	"fmt"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Ports lists the available MIDI input port names
func Ports() ([]string, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMIDI, err)
	}
	defer driver.Close()

	ins, err := driver.Ins()
	if err != nil {
		return nil, fmt.Errorf("failed to list midi inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// Open starts listening on the first input whose name starts with prefix.
// An empty prefix takes the first input.
func (in *Input) Open(prefix string) error {
	driver, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoMIDI, err)
	}

	ins, err := driver.Ins()
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to list midi inputs: %w", err)
	}

	var port drivers.In
	for _, candidate := range ins {
		if prefix == "" || strings.HasPrefix(candidate.String(), prefix) {
			port = candidate
			break
		}
	}
	if port == nil {
		driver.Close()
		return fmt.Errorf("%w: %q", ErrNoPort, prefix)
	}

	if err := port.Open(); err != nil {
		driver.Close()
		return fmt.Errorf("failed to open midi input %s: %w", port, err)
	}

	stop, err := midi.ListenTo(port, in.Handle)
	if err != nil {
		port.Close()
		driver.Close()
		return fmt.Errorf("failed to listen on %s: %w", port, err)
	}

	in.Close()

	in.mu.Lock()
	in.port = port.String()
	in.stop = func() {
		stop()
		port.Close()
		driver.Close()
	}
	in.mu.Unlock()

	log.Printf("MIDI input: %s", port)
	return nil
}
