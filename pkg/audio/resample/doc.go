// ABOUTME: Variable-rate playback cursor using linear interpolation
// ABOUTME: Package documentation
// Package resample provides playback-rate conversion for in-memory audio.
//
// Varispeed combines sample-rate conversion (asset rate to device rate) with
// a signed, continuously adjustable playback rate, so the same cursor serves
// normal play, tempo shifts, pitch bends and reverse seeks.
//
// Example:
//
//	v := resample.NewVarispeed(44100, 48000, len(frames))
//	v.SeekSeconds(12.5)
//	i0, i1, frac, ok := v.Next(rate)
//	left := resample.Lerp(frames[i0][0], frames[i1][0], frac)
package resample
