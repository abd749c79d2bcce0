// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded assets, source formats and sample conversions
package audio

import (
	"math"
	"time"
)

// Format describes the encoded source an asset was decoded from
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Asset is a fully decoded audio file held in memory. Frames are stereo;
// mono sources are duplicated into both sides. An asset is never mutated
// after the loader returns it.
type Asset struct {
	ID         string
	Name       string
	Frames     [][2]float64
	SampleRate int
	Source     Format
}

// Len returns the number of frames in the asset
func (a *Asset) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Frames)
}

// Duration returns the asset length in seconds
func (a *Asset) Duration() float64 {
	if a == nil || a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Frames)) / float64(a.SampleRate)
}

// Length returns the asset length as a time.Duration
func (a *Asset) Length() time.Duration {
	return time.Duration(a.Duration() * float64(time.Second))
}

// SampleFromInt16 converts a 16-bit PCM sample to [-1, 1)
func SampleFromInt16(sample int16) float64 {
	return float64(sample) / 32768.0
}

// SampleToInt16 converts a float sample to 16-bit PCM with clipping
func SampleToInt16(sample float64) int16 {
	scaled := math.Round(sample * 32767.0)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}

// SampleFromInt converts an integer PCM sample of the given bit depth to [-1, 1)
func SampleFromInt(sample int, bitDepth int) float64 {
	if bitDepth <= 0 {
		return 0
	}
	return float64(sample) / float64(int64(1)<<(bitDepth-1))
}
