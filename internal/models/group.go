package models

import (
	"time"

	"github.com/lib/pq"
)

// Group represents a chat group with its members array.
type Group struct {
	ID        int64          `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	CreatorID string         `db:"creator_id" json:"creatorId"`
	Members   pq.StringArray `db:"members" json:"members"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// GroupMessage represents a message sent in a group.
type GroupMessage struct {
	ID        int64  `db:"id" json:"id"`
	GroupID   int64  `db:"group_id" json:"groupId"`
	SenderID  string `db:"sender_id" json:"senderId"`
	Content   string `db:"content" json:"content"`
	ReplyToID *int64 `db:"reply_to_id" json:"replyToId"`
	Timestamp string `db:"sent_at" json:"timestamp"`
}

// GroupEvent is emitted over WebSocket connections for groups.
type GroupEvent struct {
	Type    string        `json:"type"`
	Message *GroupMessage `json:"message,omitempty"`
}
