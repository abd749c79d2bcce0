// ABOUTME: WAV decoding for the asset loader
// ABOUTME: Reads the full PCM buffer through go-audio/wav
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV decodes a whole RIFF/WAVE stream
func DecodeWAV(r io.ReadSeeker) (*Decoded, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return nil, errors.New("wav file has no channels")
	}

	channels := buf.Format.NumChannels
	bitDepth := int(decoder.BitDepth)
	frames := toFrames(len(buf.Data), channels, func(i int) float64 {
		v := buf.Data[i]
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		return audio.SampleFromInt(v, bitDepth)
	})

	return &Decoded{
		Frames: frames,
		Format: audio.Format{
			Codec:      "wav",
			SampleRate: int(decoder.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
