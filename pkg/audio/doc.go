// ABOUTME: Audio data types shared by the loader, engine and transport
// ABOUTME: Package documentation
// Package audio holds decoded assets and the position beacon signal.
//
// An Asset keeps stereo float frames in memory. A CounterSignal of the same
// length is played beside it so the engine can report exactly how far into
// the asset playback has advanced, whatever the rate.
//
// Example:
//
//	counter := audio.NewCounterSignal(asset.Len())
//	seconds := audio.Offset(counter[i], asset.Duration())
package audio
