package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single message in a task's chat room. Messages are
// written once and never edited or deleted.
type ChatMessage struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TaskID      uuid.UUID `json:"taskId" gorm:"not null;index"`
	SenderID    uuid.UUID `json:"senderId" gorm:"not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Attachments []string  `json:"attachments" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"createdAt"`

	Sender User `json:"sender" gorm:"foreignKey:SenderID"`
	Task   Task `json:"-" gorm:"foreignKey:TaskID"`
}
