// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface with oto and null implementations
// Package output provides audio playback devices.
//
// Devices pull 16-bit stereo PCM from an io.Reader; the engine hands them a
// reader over its graph. oto drives the system sound card; null paces reads
// in real time without producing sound.
//
// Example:
//
//	out, err := output.New(output.BackendOto, 60*time.Millisecond, 128)
//	err = out.Open(48000, 2)
//	err = out.Start(engine.NewReader(graph))
package output
