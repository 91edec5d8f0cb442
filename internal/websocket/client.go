package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// EventHandler routes application-level events (chat sends, typing)
// coming off a client connection. Room membership events are handled by
// the hub itself.
type EventHandler interface {
	HandleEvent(client *Client, evt *Event) error
}

// Client is one live websocket connection. A user may own several.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Rooms  map[uuid.UUID]bool
	Hub    *Hub
	mu     sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Rooms:  make(map[uuid.UUID]bool),
		Hub:    hub,
	}
}

// ReadPump reads frames from the connection until it drops, then
// unregisters the client (which removes it from every room).
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		if err := c.Conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch evt.Type {
		case TypePong:
			continue

		case TypeJoinTask:
			var payload JoinTaskPayload
			if err := json.Unmarshal(evt.Data, &payload); err != nil || payload.TaskID == uuid.Nil {
				c.SendError(ErrInvalidEvent.Error())
				continue
			}
			c.Hub.JoinRoom(c, payload.TaskID)
			continue

		case TypeLeaveTask:
			var payload JoinTaskPayload
			if err := json.Unmarshal(evt.Data, &payload); err != nil || payload.TaskID == uuid.Nil {
				c.SendError(ErrInvalidEvent.Error())
				continue
			}
			c.Hub.LeaveRoom(c, payload.TaskID)
			continue

		case TypeJoinUser:
			var payload JoinUserPayload
			if err := json.Unmarshal(evt.Data, &payload); err != nil {
				c.SendError(ErrInvalidEvent.Error())
				continue
			}
			// A connection may only subscribe to its own notifications.
			if payload.UserID != c.UserID {
				c.SendError(ErrUnauthorized.Error())
				continue
			}
			c.Hub.JoinRoom(c, c.UserID)
			continue
		}

		if handler != nil {
			if err := handler.HandleEvent(c, &evt); err != nil {
				log.Printf("Error handling %s event: %v", evt.Type, err)
				c.SendError(err.Error())
			}
		}
	}
}

// WritePump drains the send queue onto the wire and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event frame for this connection only.
func (c *Client) SendEvent(eventType EventType, data interface{}) error {
	payload, err := Envelope(eventType, data)
	if err != nil {
		return err
	}

	select {
	case c.Send <- payload:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(errorMsg string) {
	c.SendEvent(TypeError, map[string]string{"error": errorMsg})
}

func (c *Client) IsInRoom(roomID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Rooms[roomID]
}
