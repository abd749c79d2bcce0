// ABOUTME: Generated test tone assets
// ABOUTME: Used by the probe tool when no track is given
package audio

import (
	"fmt"
	"math"
)

// Tone returns a stereo sine asset of the given length at half scale
func Tone(frequency float64, seconds float64, sampleRate int) *Asset {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	n := int(seconds * float64(sampleRate))
	frames := make([][2]float64, max(n, 0))
	for i := range frames {
		t := float64(i) / float64(sampleRate)
		v := 0.5 * math.Sin(2*math.Pi*frequency*t)
		frames[i] = [2]float64{v, v}
	}

	return &Asset{
		ID:         fmt.Sprintf("tone-%g-%d", frequency, n),
		Name:       fmt.Sprintf("Test Tone %gHz", frequency),
		Frames:     frames,
		SampleRate: sampleRate,
		Source:     Format{Codec: "pcm", SampleRate: sampleRate, Channels: 2, BitDepth: 16},
	}
}
