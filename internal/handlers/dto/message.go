package dto

import (
	"time"

	"github.com/google/uuid"
)

// MessageResponse is the enriched chat message broadcast to the task
// room and returned from the history endpoint.
type MessageResponse struct {
	ID          uuid.UUID  `json:"id"`
	TaskID      uuid.UUID  `json:"taskId"`
	Content     string     `json:"content"`
	Attachments []string   `json:"attachments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Sender      SenderInfo `json:"sender"`
}

type SenderInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	BusinessLogo string    `json:"businessLogo,omitempty"`
}
