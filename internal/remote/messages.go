// ABOUTME: Remote surface message definitions
// ABOUTME: JSON envelope {type, payload} shared by server and clients
package remote

import (
	"encoding/json"
	"fmt"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

// Message types
const (
	TypeHello   = "hello"
	TypeState   = "state"
	TypeGesture = "gesture"
	TypeError   = "error"
)

// Message is the top-level wrapper for all remote messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hello is sent by the deck when a client connects
type Hello struct {
	ServerID     string `json:"server_id"`
	Name         string `json:"name"`
	Product      string `json:"product"`
	Manufacturer string `json:"manufacturer"`
	Version      string `json:"version"`
}

// State is the deck snapshot as sent to clients
type State struct {
	State      string  `json:"state"`
	Loaded     bool    `json:"loaded"`
	AssetID    string  `json:"asset_id,omitempty"`
	AssetName  string  `json:"asset_name,omitempty"`
	Duration   float64 `json:"duration"`
	Position   float64 `json:"position"`
	CuePoint   float64 `json:"cue_point"`
	PausePoint float64 `json:"pause_point"`
	Remaining  int     `json:"remaining"`
	Tempo      float64 `json:"tempo"`
	Rate       float64 `json:"rate"`
	Override   string  `json:"override"`
	Nudging    bool    `json:"nudging"`
	Session    uint64  `json:"session"`
}

// Error reports a rejected client message
type Error struct {
	Message string `json:"message"`
}

// StateFromSnapshot converts a transport snapshot to its wire form
func StateFromSnapshot(s transport.Snapshot) State {
	return State{
		State:      s.State.String(),
		Loaded:     s.Loaded,
		AssetID:    s.AssetID,
		AssetName:  s.AssetName,
		Duration:   s.Duration,
		Position:   s.Position,
		CuePoint:   s.CuePoint,
		PausePoint: s.PausePoint,
		Remaining:  s.Remaining,
		Tempo:      s.Tempo,
		Rate:       s.Rate,
		Override:   s.Override.String(),
		Nudging:    s.Nudging,
		Session:    s.SessionID,
	}
}

// Active reports whether the deck is producing sound
func (s State) Active() bool {
	return s.Session != 0
}

// decodePayload re-marshals a generic payload into out
func decodePayload(payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
