package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub owns every live connection and the in-memory room registry.
//
// Rooms are keyed by raw UUID: task rooms by task id, personal
// notification rooms by user id. The two id spaces are disjoint, so no
// namespacing is needed. Rooms exist only while they have members and
// are never persisted; clients rejoin on every fresh connection.
type Hub struct {
	clients map[uuid.UUID]*Client

	// One user may hold several connections (multiple tabs).
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	// room id -> clients currently joined
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rooms:       make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run processes connection lifecycle events until Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	log.Printf("Client registered: %s (user %s)", client.ID, client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	// Implicit leave from every room the connection was in.
	for roomID := range client.Rooms {
		h.removeFromRoomUnsafe(client, roomID)
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (user %s)", client.ID, client.UserID)
}

// JoinRoom adds the client to a room, creating it on first join.
// Joining a room the client is already in is a no-op.
func (h *Hub) JoinRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[uuid.UUID]*Client)
	}

	h.rooms[roomID][client.ID] = client
	client.mu.Lock()
	client.Rooms[roomID] = true
	client.mu.Unlock()
}

func (h *Hub) LeaveRoom(client *Client, roomID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomUnsafe(client, roomID)
}

func (h *Hub) removeFromRoomUnsafe(client *Client, roomID uuid.UUID) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	if _, ok := room[client.ID]; !ok {
		return
	}

	delete(room, client.ID)
	client.mu.Lock()
	delete(client.Rooms, roomID)
	client.mu.Unlock()

	// Prune empty rooms so dead task ids do not accumulate.
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// SendToRoom delivers payload to every connection in the room, including
// the sender's. An empty or unknown room is a silent no-op.
func (h *Hub) SendToRoom(roomID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomExceptUnsafe(roomID, payload, uuid.Nil)
}

// SendToRoomExcept skips one connection; used for typing indicators so
// the typist does not receive their own echo.
func (h *Hub) SendToRoomExcept(roomID uuid.UUID, payload []byte, excludeID uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoomExceptUnsafe(roomID, payload, excludeID)
}

func (h *Hub) sendToRoomExceptUnsafe(roomID uuid.UUID, payload []byte, excludeID uuid.UUID) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	for _, client := range room {
		if client.ID == excludeID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("Client %s send channel full, dropping frame", client.ID)
		}
	}
}

// SendToUser delivers payload to every connection of the user and
// reports how many connections it reached. Zero is not an error: the
// recipient is simply offline.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- payload:
			delivered++
		default:
			log.Printf("Client %s send channel full, dropping frame", client.ID)
		}
	}
	return delivered
}

// RoomMembers returns the ids of connections currently in the room.
// Unknown rooms yield an empty slice.
func (h *Hub) RoomMembers(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]uuid.UUID, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		members = append(members, id)
	}
	return members
}

// RoomUsers returns the distinct user ids present in the room.
func (h *Hub) RoomUsers(roomID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	for _, client := range h.rooms[roomID] {
		seen[client.UserID] = true
	}

	users := make([]uuid.UUID, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	return users
}

// OnlineUsers returns every user with at least one live connection.
func (h *Hub) OnlineUsers() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	payload, err := Envelope(TypePing, nil)
	if err != nil {
		return
	}

	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}
