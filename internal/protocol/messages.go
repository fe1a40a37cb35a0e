package protocol

import (
	"encoding/json"

	"dicebound/internal/engine"
)

// Message types: Server → Client
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgEvent   = "event"
	MsgError   = "error"
)

// Client → Server messages use the engine transition kinds as their type,
// e.g. "roll_dice" or "buy_item".

// Welcome is sent once when a websocket connection is registered.
type Welcome struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
}

// InvokeResult is the reply to a successful invocation.
type InvokeResult struct {
	Events []engine.Event   `json:"events"`
	State  engine.StateView `json:"state"`
}

// SessionCreated is returned when a new run is created.
type SessionCreated struct {
	ID    string           `json:"id"`
	State engine.StateView `json:"state"`
}

// Catalog lists every purchasable and selectable thing.
type Catalog struct {
	Entries  []engine.ScoreCardEntry `json:"entries"`
	Items    []engine.ItemInfo       `json:"items"`
	Loadouts []engine.Loadout        `json:"loadouts"`
}

// ErrorMsg is sent to a client on error.
type ErrorMsg struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ForceStageChangeMsg carries a developer stage override. State is decoded
// into the payload type named by Stage.
type ForceStageChangeMsg struct {
	Stage string          `json:"stage"`
	State json.RawMessage `json:"state,omitempty"`
}
