package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adimehta/skillbridge/internal/middleware"
	"github.com/adimehta/skillbridge/internal/notifier"
)

type NotificationHandler struct {
	dispatcher *notifier.Dispatcher
}

func NewNotificationHandler(dispatcher *notifier.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// GetNotifications returns the requester's most recent notifications,
// newest first.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	notifications, err := h.dispatcher.Recent(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(notifications),
		"data":  notifications,
	})
}

// MarkAsRead marks one notification read. 403 when it belongs to
// another user, 404 when it does not exist.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := h.dispatcher.MarkRead(notificationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		case errors.Is(err, notifier.ErrNotRecipient):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your notification"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": n})
}

// MarkAllAsRead marks every unread notification of the requester read.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	if err := h.dispatcher.MarkAllRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}
