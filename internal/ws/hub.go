package ws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"messaging-backend/internal/models"
	"messaging-backend/internal/observability"
)

// Hub maintains active websocket rooms. Conversation rooms are keyed by the
// derived conversation key, group rooms by the group id.
type Hub struct {
	convoRooms    map[string]map[*websocket.Conn]bool
	groupRooms    map[int64]map[*websocket.Conn]bool
	convoConnInfo map[string]map[*websocket.Conn]ConnInfo
	groupConnInfo map[int64]map[*websocket.Conn]ConnInfo
	mu            sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		convoRooms:    make(map[string]map[*websocket.Conn]bool),
		groupRooms:    make(map[int64]map[*websocket.Conn]bool),
		convoConnInfo: make(map[string]map[*websocket.Conn]ConnInfo),
		groupConnInfo: make(map[int64]map[*websocket.Conn]ConnInfo),
	}
}

// AddConversationClient registers a websocket connection to a conversation room.
func (h *Hub) AddConversationClient(convoKey string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.convoRooms[convoKey]; !ok {
		h.convoRooms[convoKey] = make(map[*websocket.Conn]bool)
	}
	h.convoRooms[convoKey][conn] = true
	if _, ok := h.convoConnInfo[convoKey]; !ok {
		h.convoConnInfo[convoKey] = make(map[*websocket.Conn]ConnInfo)
	}
	h.convoConnInfo[convoKey][conn] = info
}

// RemoveConversationClient removes a conversation websocket connection.
func (h *Hub) RemoveConversationClient(convoKey string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.convoRooms[convoKey]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.convoRooms, convoKey)
		}
	}
	if infos, ok := h.convoConnInfo[convoKey]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.convoConnInfo, convoKey)
		}
	}
}

// BroadcastConversationMessage sends the message to every subscriber of the
// conversation.
func (h *Hub) BroadcastConversationMessage(convoKey string, msg models.Message) {
	if h == nil {
		return
	}
	h.mu.RLock()
	conns := h.convoRooms[convoKey]
	h.mu.RUnlock()

	event := models.ConversationEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveConversationClient(convoKey, conn)
			h.publishWSError("conversation", convoKey, conn, err)
		}
	}
}

// AddGroupClient registers a websocket connection to a group room.
func (h *Hub) AddGroupClient(groupID int64, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groupRooms[groupID]; !ok {
		h.groupRooms[groupID] = make(map[*websocket.Conn]bool)
	}
	h.groupRooms[groupID][conn] = true
	if _, ok := h.groupConnInfo[groupID]; !ok {
		h.groupConnInfo[groupID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.groupConnInfo[groupID][conn] = info
}

// RemoveGroupClient removes a group websocket connection.
func (h *Hub) RemoveGroupClient(groupID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.groupRooms[groupID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.groupRooms, groupID)
		}
	}
	if infos, ok := h.groupConnInfo[groupID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.groupConnInfo, groupID)
		}
	}
}

// BroadcastGroupMessage sends the message to every subscriber of the group.
func (h *Hub) BroadcastGroupMessage(groupID int64, msg models.GroupMessage) {
	if h == nil {
		return
	}
	h.mu.RLock()
	conns := h.groupRooms[groupID]
	h.mu.RUnlock()

	event := models.GroupEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveGroupClient(groupID, conn)
			h.publishWSError("group", strconv.FormatInt(groupID, 10), conn, err)
		}
	}
}

func (h *Hub) publishWSError(kind, resource string, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(kind, resource, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"resource":    resource,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(kind, "ws_error")
}

func (h *Hub) getConnInfo(kind, resource string, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if kind == "conversation" {
		if infos, ok := h.convoConnInfo[resource]; ok {
			info, exists := infos[conn]
			return info, exists
		}
		return ConnInfo{}, false
	}
	groupID, err := strconv.ParseInt(resource, 10, 64)
	if err != nil {
		return ConnInfo{}, false
	}
	if infos, ok := h.groupConnInfo[groupID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}

func wsRoutingKey(kind string) string {
	if kind == "group" {
		return "ws_events.groups"
	}
	return "ws_events.conversations"
}
