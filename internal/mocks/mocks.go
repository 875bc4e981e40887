package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-backend/internal/identity"
	"messaging-backend/internal/models"
	"messaging-backend/internal/repositories"
)

type ConversationMessageRepositoryMock struct {
	mock.Mock
}

func (m *ConversationMessageRepositoryMock) CreateMessage(ctx context.Context, senderID, receiverID, content string, replyToID *int64) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content, replyToID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *ConversationMessageRepositoryMock) ListConversationMessages(ctx context.Context, senderID, receiverID string) ([]models.Message, error) {
	args := m.Called(ctx, senderID, receiverID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (models.Group, error) {
	args := m.Called(ctx, creatorID, name, memberIDs)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int64) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID int64, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveMember(ctx context.Context, groupID int64, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID int64, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

type GroupMessageRepositoryMock struct {
	mock.Mock
}

func (m *GroupMessageRepositoryMock) CreateGroupMessage(ctx context.Context, groupID int64, senderID, content string, replyToID *int64) (models.GroupMessage, error) {
	args := m.Called(ctx, groupID, senderID, content, replyToID)
	var msg models.GroupMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.GroupMessage)
	}
	return msg, args.Error(1)
}

func (m *GroupMessageRepositoryMock) ListGroupMessages(ctx context.Context, groupID int64) ([]models.GroupMessage, error) {
	args := m.Called(ctx, groupID)
	var msgs []models.GroupMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.GroupMessage)
	}
	return msgs, args.Error(1)
}

type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) Register(ctx context.Context, email, password string) (identity.Credentials, error) {
	args := m.Called(ctx, email, password)
	var creds identity.Credentials
	if val := args.Get(0); val != nil {
		creds = val.(identity.Credentials)
	}
	return creds, args.Error(1)
}

func (m *GatewayMock) Login(ctx context.Context, email, password string) (identity.Credentials, error) {
	args := m.Called(ctx, email, password)
	var creds identity.Credentials
	if val := args.Get(0); val != nil {
		creds = val.(identity.Credentials)
	}
	return creds, args.Error(1)
}

func (m *GatewayMock) UpdateProfile(ctx context.Context, uid, displayName string) error {
	args := m.Called(ctx, uid, displayName)
	return args.Error(0)
}

func (m *GatewayMock) DeleteAccount(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *GatewayMock) VerifyToken(ctx context.Context, idToken string) (string, error) {
	args := m.Called(ctx, idToken)
	return args.String(0), args.Error(1)
}

var _ repositories.ConversationMessageRepository = (*ConversationMessageRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.GroupMessageRepository = (*GroupMessageRepositoryMock)(nil)
var _ identity.Gateway = (*GatewayMock)(nil)
