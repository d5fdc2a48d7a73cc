package server

import (
	"encoding/json"
	"time"

	"github.com/lox/pokertable/internal/game"
)

// MessageType identifies the payload of a Message
type MessageType string

const (
	// Client → Server
	MessageTypeSubmit MessageType = "submit"
	MessageTypeAdopt  MessageType = "adopt"
	MessageTypeSync   MessageType = "sync"

	// Server → Client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

func (m MessageType) String() string {
	return string(m)
}

// Error codes carried in ErrorData
const (
	CodeInvalidMessage = "invalid_message"
	CodeStaleVersion   = "stale_version"
	CodeRejected       = "rejected"
	CodeUnknownType    = "unknown_message_type"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// SubmitData asks the server to apply Action on top of version Base.
// Action uses the game action wire format.
type SubmitData struct {
	Base   uint64          `json:"base"`
	Action json.RawMessage `json:"action"`
}

// AdoptData replaces the table with State, a snapshot of any supported
// version.
type AdoptData struct {
	Base  uint64          `json:"base"`
	State json.RawMessage `json:"state"`
}

// StateData is a full copy of the table at Version
type StateData struct {
	Version uint64          `json:"version"`
	Action  game.ActionType `json:"action,omitempty"`
	State   game.GameState  `json:"state"`
}

// ErrorData reports a failed request. Version is the table version at the
// time of the failure.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Version uint64 `json:"version,omitempty"`
}

func stateData(u Update) StateData {
	return StateData{Version: u.Version, Action: u.Action, State: u.State}
}
