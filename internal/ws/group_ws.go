package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"messaging-backend/internal/identity"
	"messaging-backend/internal/observability"
	"messaging-backend/internal/repositories"
)

// GroupWebSocketHandler handles group websocket subscriptions.
type GroupWebSocketHandler struct {
	hub       *Hub
	groupRepo repositories.GroupRepository
	gateway   identity.Gateway
}

// NewGroupWebSocketHandler constructs a GroupWebSocketHandler.
func NewGroupWebSocketHandler(hub *Hub, groupRepo repositories.GroupRepository, gateway identity.Gateway) *GroupWebSocketHandler {
	return &GroupWebSocketHandler{hub: hub, groupRepo: groupRepo, gateway: gateway}
}

// Handle upgrades and registers a websocket connection for a group. The
// caller must present a valid ID token for a group member.
func (h *GroupWebSocketHandler) Handle(c *gin.Context) {
	groupID, err := strconv.ParseInt(c.Param("groupId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	uid, err := h.gateway.VerifyToken(c.Request.Context(), tokenFromRequest(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, uid)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for group"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      uid,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		ConnectedAt: time.Now(),
	}
	h.hub.AddGroupClient(groupID, conn, info)

	observability.IncWSActive("group")
	observability.IncWSEvent("group", "ws_connect")

	go func() {
		defer func() {
			h.hub.RemoveGroupClient(groupID, conn)
			observability.DecWSActive("group")
			observability.IncWSEvent("group", "ws_disconnect")
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
