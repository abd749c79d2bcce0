// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for devices that pull PCM from a reader
package output

import (
	"fmt"
	"io"
	"time"
)

// Output represents an audio output device. The device pulls signed
// 16-bit little-endian interleaved PCM from the reader handed to Start on
// its own thread until Close.
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Start begins pulling audio from src
	Start(src io.Reader) error

	// Close releases output resources
	Close() error
}

// Backend names accepted by New
const (
	BackendOto  = "oto"
	BackendNull = "null"
)

// New creates an output by backend name. buffer is the device-side
// latency; blockFrames paces the null backend.
func New(backend string, buffer time.Duration, blockFrames int) (Output, error) {
	switch backend {
	case BackendOto, "":
		return NewOto(buffer), nil
	case BackendNull:
		return NewNull(blockFrames), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", backend)
	}
}
