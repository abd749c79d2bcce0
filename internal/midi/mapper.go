// ABOUTME: Translates MIDI controller messages into transport gestures
// ABOUTME: Notes are buttons, one CC is the tempo fader, aftertouch is pressure bend
package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/Resonate-Protocol/cuedeck/internal/config"
	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

// Config holds the mapping and the tempo range the fader spans
type Config struct {
	Mapping  config.MIDIMapping
	Channel  int // -1 accepts every channel
	TempoMin float64
	TempoMax float64
}

// Mapper is stateful: it remembers which bend pad is held so channel
// pressure can be given a direction
type Mapper struct {
	config   Config
	bendHeld transport.Direction
	pressing bool
}

// NewMapper creates a mapper
func NewMapper(config Config) *Mapper {
	if config.TempoMin <= 0 {
		config.TempoMin = 0.9
	}
	if config.TempoMax <= 0 {
		config.TempoMax = 1.1
	}
	return &Mapper{config: config}
}

// Translate returns the gestures msg stands for, possibly none
func (m *Mapper) Translate(msg midi.Message) []transport.Gesture {
	var channel, key, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &value):
		if !m.accepts(channel) {
			return nil
		}
		if value == 0 {
			return m.release(key)
		}
		return m.press(key)

	case msg.GetNoteOff(&channel, &key, &value):
		if !m.accepts(channel) {
			return nil
		}
		return m.release(key)

	case msg.GetControlChange(&channel, &key, &value):
		if !m.accepts(channel) || key != m.config.Mapping.TempoCC {
			return nil
		}
		return []transport.Gesture{{Kind: transport.GestureTempo, Value: m.faderTempo(value)}}

	case msg.GetPolyAfterTouch(&channel, &key, &value):
		if !m.accepts(channel) {
			return nil
		}
		dir := m.bendDirection(key)
		if dir == 0 || dir != m.bendHeld {
			return nil
		}
		return m.pressure(dir, value)

	case msg.GetAfterTouch(&channel, &value):
		if !m.accepts(channel) || m.bendHeld == 0 {
			return nil
		}
		return m.pressure(m.bendHeld, value)
	}

	return nil
}

func (m *Mapper) accepts(channel uint8) bool {
	return m.config.Channel < 0 || int(channel) == m.config.Channel
}

func (m *Mapper) press(key uint8) []transport.Gesture {
	mp := m.config.Mapping
	switch key {
	case mp.Play:
		return []transport.Gesture{{Kind: transport.GesturePlay}}
	case mp.Cue:
		return []transport.Gesture{{Kind: transport.GestureCueDown}}
	case mp.SetCue:
		return []transport.Gesture{{Kind: transport.GestureSetCue}}
	case mp.SeekBack:
		return []transport.Gesture{{Kind: transport.GestureSeekDown, Direction: transport.Backward}}
	case mp.SeekForward:
		return []transport.Gesture{{Kind: transport.GestureSeekDown, Direction: transport.Forward}}
	case mp.NudgeMinus:
		return []transport.Gesture{{Kind: transport.GestureNudgeDown, Direction: transport.Backward}}
	case mp.NudgePlus:
		return []transport.Gesture{{Kind: transport.GestureNudgeDown, Direction: transport.Forward}}
	}
	if dir := m.bendDirection(key); dir != 0 {
		m.bendHeld = dir
		m.pressing = false
		return []transport.Gesture{{Kind: transport.GestureBendDown, Direction: dir}}
	}
	return nil
}

func (m *Mapper) release(key uint8) []transport.Gesture {
	mp := m.config.Mapping
	switch key {
	case mp.Cue:
		return []transport.Gesture{{Kind: transport.GestureCueUp}}
	case mp.SeekBack, mp.SeekForward:
		return []transport.Gesture{{Kind: transport.GestureSeekUp}}
	case mp.NudgeMinus, mp.NudgePlus:
		return []transport.Gesture{{Kind: transport.GestureNudgeUp}}
	}
	if dir := m.bendDirection(key); dir != 0 && dir == m.bendHeld {
		m.bendHeld = 0
		m.pressing = false
		return []transport.Gesture{{Kind: transport.GestureBendUp}}
	}
	return nil
}

func (m *Mapper) bendDirection(key uint8) transport.Direction {
	switch key {
	case m.config.Mapping.BendMinus:
		return transport.Backward
	case m.config.Mapping.BendPlus:
		return transport.Forward
	}
	return 0
}

// pressure maps aftertouch 1..127 onto force 1..MaxPressure, so any
// pressure bends away from tempo in the pad's direction. Zero releases.
func (m *Mapper) pressure(dir transport.Direction, value uint8) []transport.Gesture {
	g := transport.Gesture{Kind: transport.GesturePressure, Direction: dir}
	if value == 0 {
		m.pressing = false
		return []transport.Gesture{g}
	}
	g.Value = 1 + float64(min(value, 127))/127*(transport.MaxPressure-1)
	if !m.pressing {
		m.pressing = true
		return []transport.Gesture{{Kind: transport.GesturePressureBegin}, g}
	}
	return []transport.Gesture{g}
}

// faderTempo maps 0..127 onto the tempo range with 64 landing on exactly 1
func (m *Mapper) faderTempo(value uint8) float64 {
	v := float64(min(value, 127))
	if v <= 64 {
		return m.config.TempoMin + (1-m.config.TempoMin)*v/64
	}
	return 1 + (m.config.TempoMax-1)*(v-64)/63
}
