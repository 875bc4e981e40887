package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messaging-backend/internal/identity"
	"messaging-backend/internal/observability"
	"messaging-backend/internal/repositories"
)

// ConversationWebSocketHandler handles conversation websocket subscriptions.
type ConversationWebSocketHandler struct {
	hub     *Hub
	gateway identity.Gateway
}

// NewConversationWebSocketHandler constructs a ConversationWebSocketHandler.
func NewConversationWebSocketHandler(hub *Hub, gateway identity.Gateway) *ConversationWebSocketHandler {
	return &ConversationWebSocketHandler{hub: hub, gateway: gateway}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client on the conversation
// room. The caller must present a valid ID token for one of the two
// participants.
func (h *ConversationWebSocketHandler) Handle(c *gin.Context) {
	senderID := c.Param("senderId")
	receiverID := c.Param("receiverId")
	convoKey := repositories.ConversationKey(senderID, receiverID)

	ctx, span := otel.Tracer("messaging-backend/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	uid, err := h.gateway.VerifyToken(ctx, tokenFromRequest(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if uid != senderID && uid != receiverID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      uid,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddConversationClient(convoKey, conn, info)

	observability.IncWSActive("conversation")
	observability.IncWSEvent("conversation", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.conversations", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload("conversation", convoKey, "ws_connect", info, 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	// Keep connection alive and clean up on close.
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveConversationClient(convoKey, conn)
			observability.DecWSActive("conversation")
			observability.IncWSEvent("conversation", "ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.conversations", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload("conversation", convoKey, "ws_disconnect", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("conversation", "ws_error")
				}
				return
			}
		}
	}()
}

func tokenFromRequest(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.GetHeader("Authorization")
}

func wsEventPayload(kind, resource, event string, info ConnInfo, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"resource":    resource,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMS,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
