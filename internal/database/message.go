package database

import (
	"github.com/adimehta/skillbridge/internal/models"
	"github.com/google/uuid"
)

func (d *Database) SaveMessage(message *models.ChatMessage) error {
	return d.db.Create(message).Error
}

// GetMessage re-reads a message with the sender's display fields loaded,
// so broadcast recipients do not need a second round-trip for the name
// and avatar.
func (d *Database) GetMessage(id uuid.UUID) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := d.db.Preload("Sender").First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetTaskMessages returns the full chat history for a task, oldest first.
func (d *Database) GetTaskMessages(taskID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	err := d.db.
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Preload("Sender").
		Find(&messages).Error

	return messages, err
}
