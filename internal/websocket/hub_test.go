package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub) *Client {
	return NewClient(h, nil, uuid.New())
}

// drain returns the payloads currently queued for the client.
func drain(c *Client) [][]byte {
	var got [][]byte
	for {
		select {
		case payload := <-c.Send:
			got = append(got, payload)
		default:
			return got
		}
	}
}

func TestHub_JoinRoomIsIdempotent(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	c := newTestClient(h)
	h.registerClient(c)

	room := uuid.New()
	h.JoinRoom(c, room)
	h.JoinRoom(c, room)

	req.Len(h.RoomMembers(room), 1)
	req.True(c.IsInRoom(room))
}

func TestHub_SendToRoomReachesOnlyMembers(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	a, b, outsider := newTestClient(h), newTestClient(h), newTestClient(h)
	for _, c := range []*Client{a, b, outsider} {
		h.registerClient(c)
	}

	room := uuid.New()
	otherRoom := uuid.New()
	h.JoinRoom(a, room)
	h.JoinRoom(b, room)
	h.JoinRoom(outsider, otherRoom)

	h.SendToRoom(room, []byte("hello"))

	req.Len(drain(a), 1)
	req.Len(drain(b), 1)
	req.Empty(drain(outsider))
}

func TestHub_SendToEmptyRoomIsNoOp(t *testing.T) {
	h := NewHub()

	// Unknown room: nothing to deliver, nothing to fail.
	h.SendToRoom(uuid.New(), []byte("into the void"))

	require.Empty(t, h.RoomMembers(uuid.New()))
}

func TestHub_SendToRoomExceptSkipsSender(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	typist, reader := newTestClient(h), newTestClient(h)
	h.registerClient(typist)
	h.registerClient(reader)

	room := uuid.New()
	h.JoinRoom(typist, room)
	h.JoinRoom(reader, room)

	h.SendToRoomExcept(room, []byte("typing"), typist.ID)

	req.Empty(drain(typist))
	req.Len(drain(reader), 1)
}

func TestHub_SendToUserCoversEveryConnection(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	userID := uuid.New()
	first := NewClient(h, nil, userID)
	second := NewClient(h, nil, userID)
	stranger := newTestClient(h)
	h.registerClient(first)
	h.registerClient(second)
	h.registerClient(stranger)

	delivered := h.SendToUser(userID, []byte("notification"))

	req.Equal(2, delivered)
	req.Len(drain(first), 1)
	req.Len(drain(second), 1)
	req.Empty(drain(stranger))
}

func TestHub_SendToOfflineUserDeliversZero(t *testing.T) {
	h := NewHub()

	require.Zero(t, h.SendToUser(uuid.New(), []byte("notification")))
}

func TestHub_LeaveRoomPrunesEmptyRoom(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	c := newTestClient(h)
	h.registerClient(c)

	room := uuid.New()
	h.JoinRoom(c, room)
	h.LeaveRoom(c, room)

	req.Empty(h.RoomMembers(room))
	req.False(c.IsInRoom(room))

	h.mu.RLock()
	_, exists := h.rooms[room]
	h.mu.RUnlock()
	req.False(exists)
}

func TestHub_UnregisterRemovesFromAllRooms(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	leaving, staying := newTestClient(h), newTestClient(h)
	h.registerClient(leaving)
	h.registerClient(staying)

	shared := uuid.New()
	solo := uuid.New()
	h.JoinRoom(leaving, shared)
	h.JoinRoom(staying, shared)
	h.JoinRoom(leaving, solo)

	h.unregisterClient(leaving)

	req.ElementsMatch([]uuid.UUID{staying.ID}, h.RoomMembers(shared))
	req.Empty(h.RoomMembers(solo))

	// Solo room must be pruned, not left dangling.
	h.mu.RLock()
	_, exists := h.rooms[solo]
	h.mu.RUnlock()
	req.False(exists)

	// Departed user no longer counts as online.
	req.NotContains(h.OnlineUsers(), leaving.UserID)
}

func TestHub_RoomUsersDeduplicatesConnections(t *testing.T) {
	req := require.New(t)
	h := NewHub()

	userID := uuid.New()
	first := NewClient(h, nil, userID)
	second := NewClient(h, nil, userID)
	h.registerClient(first)
	h.registerClient(second)

	room := uuid.New()
	h.JoinRoom(first, room)
	h.JoinRoom(second, room)

	req.Len(h.RoomMembers(room), 2)
	req.ElementsMatch([]uuid.UUID{userID}, h.RoomUsers(room))
}

func TestHub_LateJoinerGetsNothingRetroactively(t *testing.T) {
	req := require.New(t)
	h := NewHub()
	early, late := newTestClient(h), newTestClient(h)
	h.registerClient(early)
	h.registerClient(late)

	room := uuid.New()
	h.JoinRoom(early, room)

	h.SendToRoom(room, []byte("before"))
	h.JoinRoom(late, room)
	h.SendToRoom(room, []byte("after"))

	req.Len(drain(early), 2)
	req.Len(drain(late), 1)
}
