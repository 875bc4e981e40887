package models

// Message is a direct message stored under a conversation key.
// Messages are immutable once created.
type Message struct {
	ID             int64  `db:"id" json:"id"`
	ConversationID string `db:"conversation_id" json:"conversationId"`
	SenderID       string `db:"sender_id" json:"senderId"`
	Content        string `db:"content" json:"content"`
	ReplyToID      *int64 `db:"reply_to_id" json:"replyToId"`
	Timestamp      string `db:"sent_at" json:"timestamp"`
}

// ConversationEvent is broadcasted through websockets.
type ConversationEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
