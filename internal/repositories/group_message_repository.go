package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"messaging-backend/internal/models"
)

// GroupMessageRepository defines interactions for group messages.
type GroupMessageRepository interface {
	CreateGroupMessage(ctx context.Context, groupID int64, senderID, content string, replyToID *int64) (models.GroupMessage, error)
	ListGroupMessages(ctx context.Context, groupID int64) ([]models.GroupMessage, error)
}

// GroupMessageRepo is a sqlx-backed implementation.
type GroupMessageRepo struct {
	db *sqlx.DB
}

// NewGroupMessageRepo constructs a GroupMessageRepo.
func NewGroupMessageRepo(db *sqlx.DB) *GroupMessageRepo {
	return &GroupMessageRepo{db: db}
}

// CreateGroupMessage persists a group message with the timestamp taken at
// call time.
func (r *GroupMessageRepo) CreateGroupMessage(ctx context.Context, groupID int64, senderID, content string, replyToID *int64) (models.GroupMessage, error) {
	msg := models.GroupMessage{
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		ReplyToID: replyToID,
		Timestamp: time.Now().UTC().Format(TimestampLayout),
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO group_messages (group_id, sender_id, content, reply_to_id, sent_at)
         VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		msg.GroupID, msg.SenderID, msg.Content, msg.ReplyToID, msg.Timestamp).
		Scan(&msg.ID)
	return msg, err
}

// ListGroupMessages returns group messages ordered ascending by timestamp.
func (r *GroupMessageRepo) ListGroupMessages(ctx context.Context, groupID int64) ([]models.GroupMessage, error) {
	var msgs []models.GroupMessage
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, group_id, sender_id, content, reply_to_id, sent_at
         FROM group_messages WHERE group_id=$1
         ORDER BY sent_at ASC, id ASC`, groupID)
	return msgs, err
}
