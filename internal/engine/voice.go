// ABOUTME: Buffer-backed streamers played at a variable, signed rate
// ABOUTME: One voice renders the asset, another renders the position beacon
package engine

import (
	"math"
	"sync/atomic"

	"github.com/Resonate-Protocol/cuedeck/pkg/audio"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio/resample"
)

// rateCell is the one playback-rate parameter of a session. Control code
// stores into it; the render thread loads it once per block.
type rateCell struct {
	bits atomic.Uint64
}

func (r *rateCell) Store(v float64) {
	r.bits.Store(math.Float64bits(v))
}

func (r *rateCell) Load() float64 {
	return math.Float64frombits(r.bits.Load())
}

// voice streams an in-memory buffer through a varispeed cursor. It stops
// producing samples once the cursor leaves the buffer in either direction.
type voice struct {
	cursor *resample.Varispeed
	frame  func(i0, i1 int, frac float64) [2]float64
	rate   float64
}

func newAssetVoice(asset *audio.Asset, outputRate int, offset float64) *voice {
	frames := asset.Frames
	v := &voice{
		cursor: resample.NewVarispeed(asset.SampleRate, outputRate, len(frames)),
		frame: func(i0, i1 int, frac float64) [2]float64 {
			a, b := frames[i0], frames[i1]
			return [2]float64{
				resample.Lerp(a[0], b[0], frac),
				resample.Lerp(a[1], b[1], frac),
			}
		},
	}
	v.cursor.SeekSeconds(offset)
	return v
}

func newCounterVoice(counter audio.CounterSignal, sampleRate, outputRate int, offset float64) *voice {
	v := &voice{
		cursor: resample.NewVarispeed(sampleRate, outputRate, len(counter)),
		frame: func(i0, i1 int, frac float64) [2]float64 {
			x := resample.Lerp(counter[i0], counter[i1], frac)
			return [2]float64{x, x}
		},
	}
	v.cursor.SeekSeconds(offset)
	return v
}

// Stream renders up to len(samples) frames at the current rate
func (v *voice) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		i0, i1, frac, ok := v.cursor.Next(v.rate)
		if !ok {
			return i, false
		}
		samples[i] = v.frame(i0, i1, frac)
	}
	return len(samples), true
}

func (v *voice) Err() error {
	return nil
}
