// ABOUTME: MP3 decoding for the asset loader
// ABOUTME: Uses go-mp3, which always yields 16-bit stereo PCM
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 decodes a whole MP3 stream
func DecodeMP3(r io.ReadSeeker) (*Decoded, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	// 2 bytes per sample, 2 channels
	frames := toFrames(len(pcm)/2, 2, func(i int) float64 {
		return audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	})

	return &Decoded{
		Frames: frames,
		Format: audio.Format{
			Codec:      "mp3",
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
