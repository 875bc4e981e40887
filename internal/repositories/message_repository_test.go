package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationKeyIsSymmetric(t *testing.T) {
	cases := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"u1", "u2"},
		{"zed", "zed"},
	}
	for _, c := range cases {
		assert.Equal(t, ConversationKey(c[0], c[1]), ConversationKey(c[1], c[0]))
	}
	assert.Equal(t, "alice_bob", ConversationKey("bob", "alice"))
}

func TestTimestampLayoutOrdersLexicographically(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	earlier := base.Format(TimestampLayout)
	later := base.Add(5 * time.Millisecond).Format(TimestampLayout)
	muchLater := base.Add(2 * time.Hour).Format(TimestampLayout)

	require.Len(t, earlier, len(later))
	assert.Less(t, earlier, later)
	assert.Less(t, later, muchLater)
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCreateMessageDerivesConversationKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO conversation_messages`)).
		WithArgs("u1_u2", "u2", "hello", nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	// sender and receiver deliberately reversed relative to the key
	msg, err := repo.CreateMessage(context.Background(), "u2", "u1", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.ID)
	assert.Equal(t, "u1_u2", msg.ConversationID)
	assert.Equal(t, "u2", msg.SenderID)
	assert.Nil(t, msg.ReplyToID)

	parsed, err := time.Parse(TimestampLayout, msg.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, 5*time.Second)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListConversationMessagesOrdersAscending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationMessageRepo(db)

	rows := sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "reply_to_id", "sent_at"}).
		AddRow(int64(1), "a_b", "a", "hi", nil, "2025-03-14T09:26:53.000Z").
		AddRow(int64(2), "a_b", "b", "hey", int64(1), "2025-03-14T09:26:54.000Z")

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY sent_at ASC, id ASC`)).
		WithArgs("a_b").
		WillReturnRows(rows)

	msgs, err := repo.ListConversationMessages(context.Background(), "b", "a")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.LessOrEqual(t, msgs[0].Timestamp, msgs[1].Timestamp)
	require.NotNil(t, msgs[1].ReplyToID)
	assert.Equal(t, int64(1), *msgs[1].ReplyToID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListConversationMessagesEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM conversation_messages`)).
		WithArgs("a_b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "content", "reply_to_id", "sent_at"}))

	msgs, err := repo.ListConversationMessages(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
