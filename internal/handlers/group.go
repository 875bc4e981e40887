package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messaging-backend/internal/models"
	"messaging-backend/internal/repositories"
	"messaging-backend/internal/telemetry"
	"messaging-backend/internal/ws"
)

// GroupHandler manages group-related endpoints.
type GroupHandler struct {
	groupRepo   repositories.GroupRepository
	messageRepo repositories.GroupMessageRepository
	hub         *ws.Hub
	audit       *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, messageRepo repositories.GroupMessageRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{
		groupRepo:   groupRepo,
		messageRepo: messageRepo,
		hub:         hub,
		audit:       audit,
	}
}

// CreateGroup handles POST /messages/groups/create.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		CreatorID string   `json:"creatorId" binding:"required"`
		GroupName string   `json:"groupName" binding:"required"`
		UserIDs   []string `json:"userIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	// An empty list is fine, a missing or null one is not.
	if req.UserIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userIds must be a list"})
		return
	}

	group, err := h.groupRepo.CreateGroup(c.Request.Context(), req.CreatorID, req.GroupName, req.UserIDs)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group: " + err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Group created")
	c.JSON(http.StatusCreated, gin.H{"groupId": group.ID})
}

// AddMember handles PUT /messages/groups/:groupId/add. Adding an existing
// member is a no-op.
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	if err := h.groupRepo.AddMember(c.Request.Context(), groupID, req.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrGroupNotFound) {
			status = http.StatusNotFound
		}
		h.emitAudit(c, "ERROR", "failed to add member")
		c.JSON(status, gin.H{"error": "Failed to add member: " + err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Group member added")
	c.JSON(http.StatusOK, gin.H{"message": "Member added"})
}

// RemoveMember handles PUT /messages/groups/:groupId/remove. Removing an
// absent member is a no-op.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	if err := h.groupRepo.RemoveMember(c.Request.Context(), groupID, req.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrGroupNotFound) {
			status = http.StatusNotFound
		}
		h.emitAudit(c, "ERROR", "failed to remove member")
		c.JSON(status, gin.H{"error": "Failed to remove member: " + err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Group member removed")
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// SendGroupMessage handles POST /messages/groups/:groupId/send. Only members
// may post.
func (h *GroupHandler) SendGroupMessage(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req struct {
		SenderID  string `json:"senderId" binding:"required"`
		Content   string `json:"content" binding:"required"`
		ReplyToID *int64 `json:"replyToId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, req.SenderID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		return
	}
	if !member {
		h.emitAudit(c, "ERROR", "not allowed")
		c.JSON(http.StatusForbidden, gin.H{"error": "sender is not a group member"})
		return
	}

	msg, err := h.messageRepo.CreateGroupMessage(c.Request.Context(), groupID, req.SenderID, req.Content, req.ReplyToID)
	if err != nil {
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message: " + err.Error()})
		return
	}

	h.hub.BroadcastGroupMessage(groupID, msg)
	h.emitAudit(c, "INFO", "Group message sent")
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// GetGroup handles GET /messages/groups/:groupId.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrGroupNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "Failed to fetch group: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// GetGroupMessages handles GET /messages/groups/:groupId/messages.
func (h *GroupHandler) GetGroupMessages(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	msgs, err := h.messageRepo.ListGroupMessages(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages: " + err.Error()})
		return
	}
	if msgs == nil {
		msgs = []models.GroupMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *GroupHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

func parseGroupID(c *gin.Context) (int64, bool) {
	groupID, err := strconv.ParseInt(c.Param("groupId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return 0, false
	}
	return groupID, true
}
