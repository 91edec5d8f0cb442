package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/adimehta/skillbridge/internal/handlers/dto"
	"github.com/adimehta/skillbridge/internal/models"
	ws "github.com/adimehta/skillbridge/internal/websocket"
	"github.com/google/uuid"
)

// ChatStore is the slice of the database the chat handler needs.
type ChatStore interface {
	SaveMessage(message *models.ChatMessage) error
	GetMessage(id uuid.UUID) (*models.ChatMessage, error)
	GetTaskMessages(taskID uuid.UUID) ([]models.ChatMessage, error)
	UpdateLastSeen(id string) error
}

// RoomBroadcaster is the slice of the hub the chat handler needs.
type RoomBroadcaster interface {
	SendToRoom(roomID uuid.UUID, payload []byte)
	SendToRoomExcept(roomID uuid.UUID, payload []byte, excludeID uuid.UUID)
}

// ChatEventHandler turns client sendMessage/typing events into durable,
// broadcast chat activity. It implements ws.EventHandler.
type ChatEventHandler struct {
	store ChatStore
	hub   RoomBroadcaster
}

func NewChatEventHandler(store ChatStore, hub RoomBroadcaster) *ChatEventHandler {
	return &ChatEventHandler{store: store, hub: hub}
}

func (h *ChatEventHandler) HandleEvent(client *ws.Client, evt *ws.Event) error {
	switch evt.Type {
	case ws.TypeSendMessage:
		return h.handleSendMessage(client, evt)

	case ws.TypeTyping:
		return h.handleTyping(client, evt)

	default:
		log.Printf("Unknown event type: %s", evt.Type)
		return nil
	}
}

func (h *ChatEventHandler) handleSendMessage(client *ws.Client, evt *ws.Event) error {
	var payload ws.SendMessagePayload
	if err := json.Unmarshal(evt.Data, &payload); err != nil {
		return err
	}

	if payload.TaskID == uuid.Nil {
		return ws.ErrInvalidEvent
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return nil
	}

	message := &models.ChatMessage{
		TaskID: payload.TaskID,
		// The payload's senderId is not trusted; the authenticated
		// connection wins.
		SenderID: client.UserID,
		Content:  content,
	}

	// Persist before any broadcast: a message other clients can see must
	// exist in history on reload.
	if err := h.store.SaveMessage(message); err != nil {
		log.Printf("Failed to save message for task %s: %v", payload.TaskID, err)
		return err
	}

	full, err := h.store.GetMessage(message.ID)
	if err != nil {
		log.Printf("Failed to load saved message %s: %v", message.ID, err)
		return err
	}

	frame, err := ws.Envelope(ws.TypeMessage, messageResponse(full))
	if err != nil {
		return err
	}

	// The sender receives their own message through the room like
	// everyone else, so render logic stays uniform.
	h.hub.SendToRoom(payload.TaskID, frame)

	go h.store.UpdateLastSeen(client.UserID.String())

	return nil
}

func (h *ChatEventHandler) handleTyping(client *ws.Client, evt *ws.Event) error {
	var payload ws.TypingPayload
	if err := json.Unmarshal(evt.Data, &payload); err != nil {
		return err
	}

	if payload.TaskID == uuid.Nil {
		return ws.ErrInvalidEvent
	}

	frame, err := ws.Envelope(ws.TypeUserTyping, ws.UserTypingPayload{
		UserName: payload.UserName,
		IsTyping: payload.IsTyping,
	})
	if err != nil {
		return err
	}

	// Ephemeral, never persisted. The typist is excluded so they do not
	// see their own indicator.
	h.hub.SendToRoomExcept(payload.TaskID, frame, client.ID)

	return nil
}

func messageResponse(m *models.ChatMessage) dto.MessageResponse {
	return dto.MessageResponse{
		ID:          m.ID,
		TaskID:      m.TaskID,
		Content:     m.Content,
		Attachments: m.Attachments,
		CreatedAt:   m.CreatedAt,
		Sender: dto.SenderInfo{
			ID:           m.Sender.ID,
			Name:         m.Sender.Name,
			AvatarURL:    m.Sender.AvatarURL,
			BusinessLogo: m.Sender.BusinessLogo,
		},
	}
}
