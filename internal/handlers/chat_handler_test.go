package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adimehta/skillbridge/internal/handlers/dto"
	"github.com/adimehta/skillbridge/internal/models"
	ws "github.com/adimehta/skillbridge/internal/websocket"
)

type fakeChatStore struct {
	saved   []*models.ChatMessage
	users   map[uuid.UUID]models.User
	saveErr error
	loadErr error
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{users: make(map[uuid.UUID]models.User)}
}

func (s *fakeChatStore) SaveMessage(m *models.ChatMessage) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	m.ID = uuid.New()
	s.saved = append(s.saved, m)
	return nil
}

func (s *fakeChatStore) GetMessage(id uuid.UUID) (*models.ChatMessage, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	for _, m := range s.saved {
		if m.ID == id {
			enriched := *m
			enriched.Sender = s.users[m.SenderID]
			return &enriched, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *fakeChatStore) GetTaskMessages(taskID uuid.UUID) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range s.saved {
		if m.TaskID == taskID {
			enriched := *m
			enriched.Sender = s.users[m.SenderID]
			out = append(out, enriched)
		}
	}
	return out, nil
}

func (s *fakeChatStore) UpdateLastSeen(id string) error { return nil }

type fakeBroadcaster struct {
	roomFrames   map[uuid.UUID][][]byte
	exceptFrames map[uuid.UUID][][]byte
	excluded     []uuid.UUID
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{
		roomFrames:   make(map[uuid.UUID][][]byte),
		exceptFrames: make(map[uuid.UUID][][]byte),
	}
}

func (b *fakeBroadcaster) SendToRoom(roomID uuid.UUID, payload []byte) {
	b.roomFrames[roomID] = append(b.roomFrames[roomID], payload)
}

func (b *fakeBroadcaster) SendToRoomExcept(roomID uuid.UUID, payload []byte, excludeID uuid.UUID) {
	b.exceptFrames[roomID] = append(b.exceptFrames[roomID], payload)
	b.excluded = append(b.excluded, excludeID)
}

func mustRaw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestChatEventHandler_SendMessagePersistsThenBroadcasts(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	hub := newFakeBroadcaster()
	h := NewChatEventHandler(store, hub)

	taskID := uuid.New()
	senderID := uuid.New()
	store.users[senderID] = models.User{
		ID:           senderID,
		Name:         "Priya",
		AvatarURL:    "https://cdn.example.com/priya.png",
		BusinessLogo: "",
	}

	client := ws.NewClient(nil, nil, senderID)

	err := h.HandleEvent(client, &ws.Event{
		Type: ws.TypeSendMessage,
		Data: mustRaw(t, ws.SendMessagePayload{
			TaskID:   taskID,
			SenderID: senderID,
			Content:  "  Hello  ",
		}),
	})

	req.NoError(err)
	req.Len(store.saved, 1)
	req.Equal("Hello", store.saved[0].Content)
	req.Equal(senderID, store.saved[0].SenderID)

	// Exactly one broadcast, to the task's room, sender included.
	frames := hub.roomFrames[taskID]
	req.Len(frames, 1)
	req.Empty(hub.exceptFrames)

	var evt ws.Event
	req.NoError(json.Unmarshal(frames[0], &evt))
	req.Equal(ws.TypeMessage, evt.Type)

	var msg dto.MessageResponse
	req.NoError(json.Unmarshal(evt.Data, &msg))
	req.Equal("Hello", msg.Content)
	req.Equal(taskID, msg.TaskID)
	req.Equal("Priya", msg.Sender.Name)
	req.Equal("https://cdn.example.com/priya.png", msg.Sender.AvatarURL)
}

func TestChatEventHandler_SpoofedSenderIsOverridden(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	h := NewChatEventHandler(store, newFakeBroadcaster())

	authenticated := uuid.New()
	store.users[authenticated] = models.User{ID: authenticated, Name: "Real"}
	client := ws.NewClient(nil, nil, authenticated)

	err := h.HandleEvent(client, &ws.Event{
		Type: ws.TypeSendMessage,
		Data: mustRaw(t, ws.SendMessagePayload{
			TaskID:   uuid.New(),
			SenderID: uuid.New(), // someone else
			Content:  "hi",
		}),
	})

	req.NoError(err)
	req.Equal(authenticated, store.saved[0].SenderID)
}

func TestChatEventHandler_EmptyContentIsNoOp(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	hub := newFakeBroadcaster()
	h := NewChatEventHandler(store, hub)

	client := ws.NewClient(nil, nil, uuid.New())

	for _, content := range []string{"", "   ", "\n\t"} {
		err := h.HandleEvent(client, &ws.Event{
			Type: ws.TypeSendMessage,
			Data: mustRaw(t, ws.SendMessagePayload{TaskID: uuid.New(), Content: content}),
		})
		req.NoError(err)
	}

	req.Empty(store.saved)
	req.Empty(hub.roomFrames)
}

func TestChatEventHandler_PersistFailureMeansNoBroadcast(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	store.saveErr = errors.New("insert or update violates foreign key constraint")
	hub := newFakeBroadcaster()
	h := NewChatEventHandler(store, hub)

	client := ws.NewClient(nil, nil, uuid.New())

	err := h.HandleEvent(client, &ws.Event{
		Type: ws.TypeSendMessage,
		Data: mustRaw(t, ws.SendMessagePayload{TaskID: uuid.New(), Content: "ghost"}),
	})

	// No phantom messages visible to other clients.
	req.Error(err)
	req.Empty(hub.roomFrames)
}

func TestChatEventHandler_TypingExcludesTypistAndSkipsPersistence(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	hub := newFakeBroadcaster()
	h := NewChatEventHandler(store, hub)

	taskID := uuid.New()
	client := ws.NewClient(nil, nil, uuid.New())

	err := h.HandleEvent(client, &ws.Event{
		Type: ws.TypeTyping,
		Data: mustRaw(t, ws.TypingPayload{TaskID: taskID, UserName: "Priya", IsTyping: true}),
	})

	req.NoError(err)
	req.Empty(store.saved)
	req.Empty(hub.roomFrames)

	frames := hub.exceptFrames[taskID]
	req.Len(frames, 1)
	req.Equal([]uuid.UUID{client.ID}, hub.excluded)

	var evt ws.Event
	req.NoError(json.Unmarshal(frames[0], &evt))
	req.Equal(ws.TypeUserTyping, evt.Type)

	var payload ws.UserTypingPayload
	req.NoError(json.Unmarshal(evt.Data, &payload))
	req.Equal("Priya", payload.UserName)
	req.True(payload.IsTyping)
}

func TestChatEventHandler_UnknownEventIsIgnored(t *testing.T) {
	h := NewChatEventHandler(newFakeChatStore(), newFakeBroadcaster())
	client := ws.NewClient(nil, nil, uuid.New())

	err := h.HandleEvent(client, &ws.Event{Type: "rave"})

	require.NoError(t, err)
}

// Broadcast through a real hub: members of the task room get the
// message, non-members do not, and the sender sees their own message.
func TestChatEventHandler_RoomDeliveryThroughHub(t *testing.T) {
	req := require.New(t)
	store := newFakeChatStore()
	hub := ws.NewHub()
	h := NewChatEventHandler(store, hub)

	taskID := uuid.New()
	senderID := uuid.New()
	store.users[senderID] = models.User{ID: senderID, Name: "Arun"}

	sender := ws.NewClient(hub, nil, senderID)
	member := ws.NewClient(hub, nil, uuid.New())
	lurker := ws.NewClient(hub, nil, uuid.New())

	hub.JoinRoom(sender, taskID)
	hub.JoinRoom(member, taskID)
	// lurker is connected (personal room only), never joined the task.
	hub.JoinRoom(lurker, lurker.UserID)

	err := h.HandleEvent(sender, &ws.Event{
		Type: ws.TypeSendMessage,
		Data: mustRaw(t, ws.SendMessagePayload{TaskID: taskID, Content: "Hello"}),
	})
	req.NoError(err)

	for _, c := range []*ws.Client{sender, member} {
		select {
		case frame := <-c.Send:
			var evt ws.Event
			req.NoError(json.Unmarshal(frame, &evt))
			req.Equal(ws.TypeMessage, evt.Type)
		default:
			req.Fail("expected a message frame")
		}
	}

	select {
	case <-lurker.Send:
		req.Fail("non-member must not receive task room traffic")
	default:
	}

	// The message is still durable even though the lurker missed it.
	history, err := store.GetTaskMessages(taskID)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("Hello", history[0].Content)
}
