// ABOUTME: Transport controller, rate controller and position tracker
// ABOUTME: Package documentation
// Package transport is the deck's state machine.
//
// A Controller moves between STOPPED, PLAYING and CUEING, owns the one
// playback session at a time, and keeps the cue and pause points. Position
// comes from beacon reports the engine posts per block into a Tracker;
// reports from sessions that have been replaced are discarded by id.
//
// The RateController layers at most one transient override (seek, timed
// bend or pressure bend) over the tempo baseline. Held ramps are functions
// of elapsed time, sampled by Controller.Tick.
package transport
