// ABOUTME: Real-time playback graph built on beep streamers
// ABOUTME: Package documentation
// Package engine renders the loaded asset and its position beacon.
//
// A Graph holds at most one Session. A session runs two voices over the same
// offset: the asset itself and a counter ramp. Rendering happens in fixed
// blocks; at the end of each block the Beacon posts the counter's last value
// to a ReportFunc, which is how the transport learns the true playback
// position without consulting any clock.
//
// Example:
//
//	g := engine.NewGraph(engine.Config{SampleRate: 48000})
//	s, err := g.Start(asset, counter, 12.0, 1.0, report)
//	s.SetRate(1.04)
//	s.Stop()
package engine
