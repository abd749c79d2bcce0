// ABOUTME: FLAC decoding for the asset loader
// ABOUTME: Walks every frame with mewkiz/flac and normalizes by bit depth
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/mewkiz/flac"
)

// DecodeFLAC decodes a whole FLAC stream
func DecodeFLAC(r io.ReadSeeker) (*Decoded, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels == 0 {
		return nil, errors.New("flac stream has no channels")
	}

	frames := make([][2]float64, 0, info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("flac frame error: %w", err)
		}

		left := frame.Subframes[0].Samples
		right := left
		if channels > 1 {
			right = frame.Subframes[1].Samples
		}
		for i := 0; i < int(frame.BlockSize); i++ {
			frames = append(frames, [2]float64{
				audio.SampleFromInt(int(left[i]), bitDepth),
				audio.SampleFromInt(int(right[i]), bitDepth),
			})
		}
	}

	return &Decoded{
		Frames: frames,
		Format: audio.Format{
			Codec:      "flac",
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
