// ABOUTME: Position beacon signal generation
// ABOUTME: Builds the counter ramp whose sample value encodes its own index
package audio

// CounterSignal is a single-channel ramp with value[i] == i/len. Played
// through the engine next to an asset of the same length, the value it
// carries at any instant is the fraction of the asset already consumed.
type CounterSignal []float64

// NewCounterSignal builds a counter of the given length. Values stay in
// [0, 1); the last one is (length-1)/length.
func NewCounterSignal(length int) CounterSignal {
	if length <= 0 {
		return nil
	}
	c := make(CounterSignal, length)
	l := float64(length)
	for i := range c {
		c[i] = float64(i) / l
	}
	return c
}

// Offset converts a beacon value back into seconds for an asset of the
// given duration
func Offset(value, duration float64) float64 {
	return value * duration
}
