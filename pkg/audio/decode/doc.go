// ABOUTME: Asset loader package for the supported file formats
// ABOUTME: Provides Load and the per-format decoders for MP3, FLAC, WAV and Ogg Opus
// Package decode turns audio files into in-memory assets.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), WAV (go-audio/wav) and
// Ogg Opus (libopusfile via hraban/opus).
//
// Every failure is a *DecodeError, which matches ErrDecode with errors.Is.
//
// Example:
//
//	asset, err := decode.Load("track.flac")
//	if errors.Is(err, decode.ErrDecode) {
//		// show the operator, keep the deck unloaded
//	}
package decode
