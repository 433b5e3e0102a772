package server

import (
	"encoding/json"
	"time"

	"github.com/lox/wordstop/internal/engine"
)

// MessageType represents a websocket message type.
type MessageType string

const (
	// Client to server messages
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"

	// Server to client messages
	MessageTypeSubscribed     MessageType = "subscribed"
	MessageTypeMatchStarted   MessageType = "match_started"
	MessageTypeMatchCompleted MessageType = "match_completed"
	MessageTypeError          MessageType = "error"

	// Every engine.EventType is also sent as a message type of the same name.
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope for everything sent over the spectator feed.
type Message struct {
	Type      MessageType     `json:"type"`
	MatchID   string          `json:"match_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, matchID string, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		MatchID:   matchID,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// EventMessage wraps a runner event.
func EventMessage(ev engine.Event) (*Message, error) {
	msg, err := NewMessage(MessageType(ev.EventType()), ev.Header().MatchID, ev)
	if err != nil {
		return nil, err
	}
	msg.Timestamp = ev.Timestamp()
	return msg, nil
}

// SubscribeData selects which match a spectator follows. An empty MatchID
// follows every match.
type SubscribeData struct {
	MatchID string `json:"match_id"`
}

// ErrorData reports a bad client message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
