package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupDedupesMembersCreatorFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	rows := sqlmock.NewRows([]string{"id", "name", "creator_id", "members", "created_at"}).
		AddRow(int64(5), "Team", "u1", []byte(`{u1,u2,u3}`), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO groups`)).
		WithArgs("Team", "u1", pq.Array([]string{"u1", "u2", "u3"})).
		WillReturnRows(rows)

	// creator repeated in the member list, plus a duplicate entry
	group, err := repo.CreateGroup(context.Background(), "u1", "Team", []string{"u2", "u1", "u3", "u2"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), group.ID)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string(group.Members))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberExistingIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`array_append`)).
		WithArgs(int64(5), "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM groups WHERE id=$1)`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, repo.AddMember(context.Background(), 5, "u2"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberUnknownGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`array_append`)).
		WithArgs(int64(99), "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM groups WHERE id=$1)`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.AddMember(context.Background(), 99, "u2")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestRemoveMemberAbsentIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	// array_remove matches the row regardless of whether the user was present
	mock.ExpectExec(regexp.QuoteMeta(`array_remove`)).
		WithArgs(int64(5), "stranger").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveMember(context.Background(), 5, "stranger"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberUnknownGroup(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`array_remove`)).
		WithArgs(int64(99), "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveMember(context.Background(), 99, "u2")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestIsMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`$2 = ANY(members)`)).
		WithArgs(int64(5), "u2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	member, err := repo.IsMember(context.Background(), 5, "u2")
	require.NoError(t, err)
	assert.True(t, member)
}
