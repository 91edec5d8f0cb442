package database

import (
	"github.com/adimehta/skillbridge/internal/models"
	"github.com/google/uuid"
)

func (d *Database) SaveNotification(n *models.Notification) error {
	return d.db.Create(n).Error
}

func (d *Database) GetNotification(id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// GetUserNotifications returns the recipient's most recent notifications,
// newest first, bounded by limit.
func (d *Database) GetUserNotifications(userID uuid.UUID, limit int) ([]models.Notification, error) {
	var notifications []models.Notification

	err := d.db.
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error

	return notifications, err
}

func (d *Database) MarkNotificationRead(id uuid.UUID) error {
	return d.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (d *Database) MarkAllNotificationsRead(userID uuid.UUID) error {
	return d.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
