package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler serves chat history over HTTP. The realtime channel never
// replays history; clients fetch it here on opening a task's chat.
type ChatHandler struct {
	store ChatStore
}

func NewChatHandler(store ChatStore) *ChatHandler {
	return &ChatHandler{store: store}
}

// GetChatHistory returns every message for a task, oldest first, with
// sender display fields attached.
func (h *ChatHandler) GetChatHistory(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	messages, err := h.store.GetTaskMessages(taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	result := make([]interface{}, len(messages))
	for i := range messages {
		result[i] = messageResponse(&messages[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(result),
		"data":  result,
	})
}
