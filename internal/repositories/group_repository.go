package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messaging-backend/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (models.Group, error)
	GetGroup(ctx context.Context, groupID int64) (models.Group, error)
	AddMember(ctx context.Context, groupID int64, userID string) error
	RemoveMember(ctx context.Context, groupID int64, userID string) error
	IsMember(ctx context.Context, groupID int64, userID string) (bool, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// CreateGroup creates a group. The members array always starts with the
// creator, followed by the given ids in order with duplicates removed.
func (r *GroupRepo) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (models.Group, error) {
	members := make([]string, 0, len(memberIDs)+1)
	seen := map[string]struct{}{creatorID: {}}
	members = append(members, creatorID)
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	var group models.Group
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO groups (name, creator_id, members) VALUES ($1, $2, $3)
         RETURNING id, name, creator_id, members, created_at`,
		name, creatorID, pq.Array(members)).
		Scan(&group.ID, &group.Name, &group.CreatorID, &group.Members, &group.CreatedAt)
	return group, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int64) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group,
		`SELECT id, name, creator_id, members, created_at FROM groups WHERE id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// AddMember appends the user to the members array with set-union semantics:
// adding an existing member is a no-op. The guarded array_append keeps the
// read-modify-write inside a single statement.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE groups SET members = array_append(members, $2)
         WHERE id=$1 AND NOT ($2 = ANY(members))`,
		groupID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		// Either already a member (no-op) or the group does not exist.
		exists, err := r.groupExists(ctx, groupID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrGroupNotFound
		}
	}
	return nil
}

// RemoveMember removes the user with set-removal semantics: removing an
// absent member is a no-op.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID int64, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE groups SET members = array_remove(members, $2) WHERE id=$1`,
		groupID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupID int64, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE id=$1 AND $2 = ANY(members))`,
		groupID, userID)
	return exists, err
}

func (r *GroupRepo) groupExists(ctx context.Context, groupID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE id=$1)`, groupID)
	return exists, err
}
