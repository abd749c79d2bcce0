// ABOUTME: Variable-rate linear interpolation over an in-memory frame buffer
// ABOUTME: Supports rate changes between reads and negative (reverse) rates
package resample

import "math"

// Varispeed walks a buffer of known length at a signed, variable playback
// rate. Each call to Next yields the pair of frames to interpolate between
// and then advances the read position by rate * ratio frames.
type Varispeed struct {
	inputRate  int
	outputRate int
	length     int
	ratio      float64 // input frames per output frame at rate 1
	position   float64
}

// NewVarispeed creates a cursor over length frames recorded at inputRate
// and rendered at outputRate
func NewVarispeed(inputRate, outputRate, length int) *Varispeed {
	ratio := 1.0
	if inputRate > 0 && outputRate > 0 {
		ratio = float64(inputRate) / float64(outputRate)
	}
	return &Varispeed{
		inputRate:  inputRate,
		outputRate: outputRate,
		length:     length,
		ratio:      ratio,
	}
}

// Seek moves the read position to a fractional input frame
func (v *Varispeed) Seek(frame float64) {
	v.position = frame
}

// SeekSeconds moves the read position to an offset in seconds
func (v *Varispeed) SeekSeconds(seconds float64) {
	v.position = seconds * float64(v.inputRate)
}

// Position returns the current fractional input frame
func (v *Varispeed) Position() float64 {
	return v.position
}

// Ratio returns input frames consumed per output frame at rate 1
func (v *Varispeed) Ratio() float64 {
	return v.ratio
}

// Done reports whether the position has left the buffer in either
// direction. A NaN position counts as having left it.
func (v *Varispeed) Done() bool {
	return v.length == 0 || math.IsNaN(v.position) || v.position < 0 || v.position > float64(v.length-1)
}

// Next returns the two frame indices and interpolation factor for the
// current position, then advances by rate. ok is false once the position
// has left the buffer.
func (v *Varispeed) Next(rate float64) (i0, i1 int, frac float64, ok bool) {
	if v.Done() {
		return 0, 0, 0, false
	}

	i0 = int(v.position)
	frac = v.position - float64(i0)
	i1 = i0 + 1
	if i1 >= v.length {
		i1 = v.length - 1
		frac = 0
	}

	v.position += rate * v.ratio
	return i0, i1, frac, true
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, frac float64) float64 {
	return a*(1.0-frac) + b*frac
}
