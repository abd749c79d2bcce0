// ABOUTME: Asset loader entry point and decode error taxonomy
// ABOUTME: Picks a format decoder from the file extension and builds an Asset
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/google/uuid"
)

var (
	// ErrDecode marks every failure to turn a file into playable samples
	ErrDecode = errors.New("unable to decode audio")

	// ErrUnsupportedFormat is returned for extensions no decoder handles
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// DecodeError reports a file that could not be loaded. It matches ErrDecode
// and the underlying cause with errors.Is.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// Decoder turns an encoded stream into stereo float frames
type Decoder func(r io.ReadSeeker) (*Decoded, error)

// Decoded is the raw output of a format decoder
type Decoded struct {
	Frames [][2]float64
	Format audio.Format
}

var decoders = map[string]Decoder{
	".mp3":  DecodeMP3,
	".flac": DecodeFLAC,
	".wav":  DecodeWAV,
	".wave": DecodeWAV,
	".opus": DecodeOpus,
	".ogg":  DecodeOpus,
}

// Supported reports whether a path has an extension the loader understands
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load decodes the file at path into an Asset
func Load(path string) (*audio.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	return LoadReader(path, f)
}

// LoadReader decodes r, choosing the decoder from name's extension
func LoadReader(name string, r io.ReadSeeker) (*audio.Asset, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, &DecodeError{Path: name, Err: ErrUnsupportedFormat}
	}

	out, err := dec(r)
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}
	if len(out.Frames) == 0 {
		return nil, &DecodeError{Path: name, Err: errors.New("no audio frames")}
	}
	if out.Format.SampleRate <= 0 {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("invalid sample rate %d", out.Format.SampleRate)}
	}

	base := filepath.Base(name)
	return &audio.Asset{
		ID:         uuid.New().String(),
		Name:       strings.TrimSuffix(base, filepath.Ext(base)),
		Frames:     out.Frames,
		SampleRate: out.Format.SampleRate,
		Source:     out.Format,
	}, nil
}

// toFrames folds interleaved samples into stereo frames. Mono is copied to
// both sides and channels beyond the second are dropped.
func toFrames(n, channels int, sample func(i int) float64) [][2]float64 {
	if channels <= 0 {
		return nil
	}
	count := n / channels
	frames := make([][2]float64, count)
	for i := 0; i < count; i++ {
		base := i * channels
		left := sample(base)
		right := left
		if channels > 1 {
			right = sample(base + 1)
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}
