package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-backend/internal/models"
	"messaging-backend/internal/repositories"
	"messaging-backend/internal/ws"
)

// MessageHandler manages direct conversation endpoints.
type MessageHandler struct {
	messageRepo repositories.ConversationMessageRepository
	hub         *ws.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.ConversationMessageRepository, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, hub: hub}
}

// SendMessage handles POST /messages/send. The conversation is created
// implicitly on first send.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		SenderID   string `json:"senderId" binding:"required"`
		ReceiverID string `json:"receiverId" binding:"required"`
		Content    string `json:"content" binding:"required"`
		ReplyToID  *int64 `json:"replyToId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), req.SenderID, req.ReceiverID, req.Content, req.ReplyToID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message: " + err.Error()})
		return
	}

	h.hub.BroadcastConversationMessage(msg.ConversationID, msg)
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// GetConversation handles GET /messages/conversations/:senderId/:receiverId.
// Participant order in the path does not matter.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	senderID := c.Param("senderId")
	receiverID := c.Param("receiverId")

	msgs, err := h.messageRepo.ListConversationMessages(c.Request.Context(), senderID, receiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages: " + err.Error()})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
