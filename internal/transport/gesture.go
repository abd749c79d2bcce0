// ABOUTME: Operator gestures as values, shared by every control surface
// ABOUTME: Surfaces translate their input into a Gesture and apply it to the controller
package transport

import (
	"errors"
	"fmt"
	"log"
)

// GestureKind names an operator action
type GestureKind string

// Gesture kinds
const (
	GesturePlay          GestureKind = "play"
	GestureCueDown       GestureKind = "cue_down"
	GestureCueUp         GestureKind = "cue_up"
	GestureSetCue        GestureKind = "set_cue"
	GestureSeekDown      GestureKind = "seek_down"
	GestureSeekUp        GestureKind = "seek_up"
	GestureScrub         GestureKind = "scrub"
	GestureBendDown      GestureKind = "bend_down"
	GestureBendUp        GestureKind = "bend_up"
	GesturePressureBegin GestureKind = "pressure_begin"
	GesturePressure      GestureKind = "pressure"
	GestureTempo         GestureKind = "tempo"
	GestureNudgeDown     GestureKind = "nudge_down"
	GestureNudgeUp       GestureKind = "nudge_up"
)

// ErrUnknownGesture is returned for gestures the controller does not understand
var ErrUnknownGesture = errors.New("unknown gesture")

// Gesture is one operator action. Direction is -1 or +1 for directional
// gestures; Value carries the scrub target, pressure force or tempo.
type Gesture struct {
	Kind      GestureKind `json:"kind"`
	Direction Direction   `json:"direction,omitempty"`
	Value     float64     `json:"value,omitempty"`
}

func (g Gesture) String() string {
	switch g.Kind {
	case GestureSeekDown, GestureBendDown, GestureNudgeDown:
		return fmt.Sprintf("%s(%s)", g.Kind, g.Direction)
	case GesturePressure:
		return fmt.Sprintf("%s(%s, %.2f)", g.Kind, g.Direction, g.Value)
	case GestureScrub, GestureTempo:
		return fmt.Sprintf("%s(%.3f)", g.Kind, g.Value)
	}
	return string(g.Kind)
}

// Validate checks that a gesture is complete
func (g Gesture) Validate() error {
	switch g.Kind {
	case GesturePlay, GestureCueDown, GestureCueUp, GestureSetCue, GestureSeekUp,
		GestureBendUp, GesturePressureBegin, GestureNudgeUp:
		return nil
	case GestureScrub, GestureTempo:
		if !finite(g.Value) {
			return fmt.Errorf("gesture %s needs a finite value, got %v", g.Kind, g.Value)
		}
		return nil
	case GestureSeekDown, GestureBendDown, GestureNudgeDown, GesturePressure:
		if g.Direction != Forward && g.Direction != Backward {
			return fmt.Errorf("gesture %s needs direction -1 or 1, got %d", g.Kind, g.Direction)
		}
		if g.Kind == GesturePressure && !finite(g.Value) {
			return fmt.Errorf("gesture %s needs a finite force, got %v", g.Kind, g.Value)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownGesture, g.Kind)
}

// Apply performs g on the controller
func (c *Controller) Apply(g Gesture) error {
	if err := g.Validate(); err != nil {
		return err
	}

	if c.config.Debug {
		log.Printf("Gesture %s", g)
	}

	switch g.Kind {
	case GesturePlay:
		c.Play()
	case GestureCueDown:
		c.CueDown()
	case GestureCueUp:
		c.CueUp()
	case GestureSetCue:
		c.SetCue()
	case GestureSeekDown:
		c.SeekDown(g.Direction)
	case GestureSeekUp:
		c.SeekUp()
	case GestureScrub:
		c.Scrub(g.Value)
	case GestureBendDown:
		c.BendDown(g.Direction)
	case GestureBendUp:
		c.BendUp()
	case GesturePressureBegin:
		c.PressureBegin()
	case GesturePressure:
		c.Pressure(g.Direction, g.Value)
	case GestureTempo:
		c.SetTempo(g.Value)
	case GestureNudgeDown:
		c.NudgeDown(g.Direction)
	case GestureNudgeUp:
		c.NudgeUp()
	}
	return nil
}
