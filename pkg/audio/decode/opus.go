// ABOUTME: Ogg Opus decoding for the asset loader
// ABOUTME: Reads the channel count from OpusHead, then decodes with libopusfile
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// Opus always decodes at 48kHz
const opusSampleRate = 48000

var opusHeadMagic = []byte("OpusHead")

// DecodeOpus decodes a whole Ogg Opus stream
func DecodeOpus(r io.ReadSeeker) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read opus file: %w", err)
	}

	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	// 120ms at 48kHz is the largest opus packet
	pcm := make([]int16, 5760*channels)
	var samples []int16
	for {
		n, err := stream.Read(pcm)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		samples = append(samples, pcm[:n*channels]...)
	}

	frames := toFrames(len(samples), channels, func(i int) float64 {
		return audio.SampleFromInt16(samples[i])
	})

	return &Decoded{
		Frames: frames,
		Format: audio.Format{
			Codec:      "opus",
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

// opusChannels reads the output channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, opusHeadMagic)
	// magic(8) version(1) channels(1)
	if idx < 0 || idx+10 > len(data) {
		return 0, errors.New("missing OpusHead packet")
	}
	channels := int(data[idx+9])
	if channels == 0 {
		return 0, errors.New("opus stream has no channels")
	}
	return channels, nil
}
