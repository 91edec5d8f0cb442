package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names an event on the realtime channel.
type EventType string

const (
	// keepalive
	TypePing EventType = "ping"
	TypePong EventType = "pong"

	// client -> server
	TypeJoinTask    EventType = "joinTask"
	TypeLeaveTask   EventType = "leaveTask"
	TypeJoinUser    EventType = "joinUser"
	TypeSendMessage EventType = "sendMessage"
	TypeTyping      EventType = "typing"

	// server -> client
	TypeMessage      EventType = "message"
	TypeUserTyping   EventType = "userTyping"
	TypeNotification EventType = "notification"
	TypeError        EventType = "error"
)

// Event is the envelope for every frame on the realtime channel.
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type JoinTaskPayload struct {
	TaskID uuid.UUID `json:"taskId"`
}

type JoinUserPayload struct {
	UserID uuid.UUID `json:"userId"`
}

type SendMessagePayload struct {
	TaskID   uuid.UUID `json:"taskId"`
	SenderID uuid.UUID `json:"senderId"`
	Content  string    `json:"content"`
}

type TypingPayload struct {
	TaskID   uuid.UUID `json:"taskId"`
	UserName string    `json:"userName"`
	IsTyping bool      `json:"isTyping"`
}

// UserTypingPayload is what room members receive; the room is implied by
// the connection's membership, so the task id is not echoed back.
type UserTypingPayload struct {
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// Envelope marshals data into a ready-to-send Event frame.
func Envelope(eventType EventType, data interface{}) ([]byte, error) {
	evt := Event{
		Type:      eventType,
		Timestamp: time.Now(),
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		evt.Data = raw
	}

	return json.Marshal(evt)
}
