package repositories

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-backend/internal/models"
)

// TimestampLayout is fixed-width down to the millisecond so that the stored
// strings order lexicographically the same way they order chronologically.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ConversationKey derives the deterministic key shared by both participants.
// It is symmetric: ConversationKey(a, b) == ConversationKey(b, a).
func ConversationKey(senderID, receiverID string) string {
	ids := []string{senderID, receiverID}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// ConversationMessageRepository defines interactions for direct messages.
type ConversationMessageRepository interface {
	CreateMessage(ctx context.Context, senderID, receiverID, content string, replyToID *int64) (models.Message, error)
	ListConversationMessages(ctx context.Context, senderID, receiverID string) ([]models.Message, error)
}

// ConversationMessageRepo is a sqlx-backed implementation.
type ConversationMessageRepo struct {
	db *sqlx.DB
}

// NewConversationMessageRepo constructs a ConversationMessageRepo.
func NewConversationMessageRepo(db *sqlx.DB) *ConversationMessageRepo {
	return &ConversationMessageRepo{db: db}
}

// CreateMessage appends a message under the conversation derived from the two
// participants. The timestamp is taken at call time.
func (r *ConversationMessageRepo) CreateMessage(ctx context.Context, senderID, receiverID, content string, replyToID *int64) (models.Message, error) {
	msg := models.Message{
		ConversationID: ConversationKey(senderID, receiverID),
		SenderID:       senderID,
		Content:        content,
		ReplyToID:      replyToID,
		Timestamp:      time.Now().UTC().Format(TimestampLayout),
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO conversation_messages (conversation_id, sender_id, content, reply_to_id, sent_at)
         VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		msg.ConversationID, msg.SenderID, msg.Content, msg.ReplyToID, msg.Timestamp).
		Scan(&msg.ID)
	return msg, err
}

// ListConversationMessages returns the conversation ordered ascending by
// timestamp. A conversation with no messages yields an empty result, not an
// error.
func (r *ConversationMessageRepo) ListConversationMessages(ctx context.Context, senderID, receiverID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, conversation_id, sender_id, content, reply_to_id, sent_at
         FROM conversation_messages WHERE conversation_id=$1
         ORDER BY sent_at ASC, id ASC`,
		ConversationKey(senderID, receiverID))
	return msgs, err
}
