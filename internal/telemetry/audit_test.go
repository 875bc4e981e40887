package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-backend/internal/mocks"
	"messaging-backend/internal/telemetry"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.messaging", "messaging-backend", "test")

	var captured telemetry.AuditEnvelope
	publisher.On("Publish", mock.Anything, "audit.messaging", mock.AnythingOfType("telemetry.AuditEnvelope")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(telemetry.AuditEnvelope)
		}).
		Return(nil).Once()

	uid := "u1"
	emitter.Emit(context.Background(), "INFO", "User registered", "req-1", &uid)

	publisher.AssertExpectations(t)
	assert.Equal(t, 1, captured.SchemaVersion)
	assert.Equal(t, "audit_log", captured.EventType)
	assert.Equal(t, "messaging-backend", captured.Service)
	assert.Equal(t, "test", captured.Environment)
	assert.Equal(t, "req-1", captured.RequestID)
	require.NotNil(t, captured.UserID)
	assert.Equal(t, "u1", *captured.UserID)
	assert.Equal(t, "INFO", captured.Payload.Level)
	assert.Equal(t, "User registered", captured.Payload.Text)
	assert.NotEmpty(t, captured.OccurredAt)
}

func TestEmitNilEmitterAndPublisherAreSafe(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	emitter.Emit(context.Background(), "INFO", "noop", "req-1", nil)

	emitter = telemetry.NewAuditEmitter(nil, "audit.messaging", "messaging-backend", "test")
	emitter.Emit(context.Background(), "INFO", "noop", "req-1", nil)
}
