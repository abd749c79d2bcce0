// ABOUTME: Console command parsing
// ABOUTME: Turns a typed line into transport gestures or deck actions
package console

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

var (
	// ErrUnknownCommand is returned for a command word the console does not know
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a known command has bad arguments
	ErrUsage = errors.New("usage")
)

// Action is what a command does beyond applying gestures
type Action int

const (
	ActionNone Action = iota
	ActionLoad
	ActionStatus
	ActionHelp
	ActionQuit
)

// Command is a parsed console line
type Command struct {
	Action   Action
	Path     string
	Gestures []transport.Gesture
}

const usage = `commands:
  load <path>              load a track
  play                     toggle play/pause
  cue down|up              hold or release cue
  setcue                   set the cue point
  seek -|+|up              hold or release seek
  bend -|+|up              hold or release pitch bend
  pressure -|+ <force>     pressure bend (0 releases)
  tempo <value>            set tempo (1.0 is normal)
  nudge -|+|up             hold or release tempo nudge
  scrub <seconds>          jump to a position
  status                   show the deck
  quit                     exit`

// Parse parses one console line. Empty lines parse to a no-op.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	g := func(gs ...transport.Gesture) (Command, error) {
		return Command{Gestures: gs}, nil
	}

	switch name {
	case "load":
		path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if path == "" {
			return Command{}, usageErr("load <path>")
		}
		return Command{Action: ActionLoad, Path: path}, nil

	case "play", "p":
		return g(transport.Gesture{Kind: transport.GesturePlay})

	case "cue":
		switch arg(args, 0) {
		case "down":
			return g(transport.Gesture{Kind: transport.GestureCueDown})
		case "up":
			return g(transport.Gesture{Kind: transport.GestureCueUp})
		}
		return Command{}, usageErr("cue down|up")

	case "setcue":
		return g(transport.Gesture{Kind: transport.GestureSetCue})

	case "seek", "bend", "nudge":
		down, up := heldKinds(name)
		switch a := arg(args, 0); a {
		case "up":
			return g(transport.Gesture{Kind: up})
		case "-", "+":
			return g(transport.Gesture{Kind: down, Direction: direction(a)})
		}
		return Command{}, usageErr(name + " -|+|up")

	case "pressure":
		a := arg(args, 0)
		force, err := strconv.ParseFloat(arg(args, 1), 64)
		if (a != "-" && a != "+") || err != nil || !finite(force) || force < 0 {
			return Command{}, usageErr("pressure -|+ <force>")
		}
		p := transport.Gesture{Kind: transport.GesturePressure, Direction: direction(a), Value: force}
		if force == 0 {
			return g(p)
		}
		return g(transport.Gesture{Kind: transport.GesturePressureBegin}, p)

	case "tempo":
		v, err := strconv.ParseFloat(arg(args, 0), 64)
		if err != nil || !finite(v) || v <= 0 {
			return Command{}, usageErr("tempo <value>")
		}
		return g(transport.Gesture{Kind: transport.GestureTempo, Value: v})

	case "scrub":
		v, err := strconv.ParseFloat(arg(args, 0), 64)
		if err != nil || !finite(v) {
			return Command{}, usageErr("scrub <seconds>")
		}
		return g(transport.Gesture{Kind: transport.GestureScrub, Value: v})

	case "status", "s":
		return Command{Action: ActionStatus}, nil
	case "help", "?":
		return Command{Action: ActionHelp}, nil
	case "quit", "exit", "q":
		return Command{Action: ActionQuit}, nil
	}

	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func heldKinds(name string) (down, up transport.GestureKind) {
	switch name {
	case "seek":
		return transport.GestureSeekDown, transport.GestureSeekUp
	case "bend":
		return transport.GestureBendDown, transport.GestureBendUp
	default:
		return transport.GestureNudgeDown, transport.GestureNudgeUp
	}
}

func direction(s string) transport.Direction {
	if s == "-" {
		return transport.Backward
	}
	return transport.Forward
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func usageErr(form string) error {
	return fmt.Errorf("%w: %s", ErrUsage, form)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
