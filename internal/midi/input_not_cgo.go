//go:build !cgo

// ABOUTME: MIDI stubs for builds without cgo
// ABOUTME: rtmidi needs cgo, so there are no ports to open
package midi

// Ports lists the available MIDI input port names
func Ports() ([]string, error) {
	return nil, ErrNoMIDI
}

// Open always fails without cgo
func (in *Input) Open(prefix string) error {
	return ErrNoMIDI
}
