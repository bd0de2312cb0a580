package kafka

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"messaging-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEventKeysByMessageID(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := encodeEvent(models.MessageEvent{
		Type:              models.EventMessageDeleted,
		MessageID:         42,
		SenderUsername:    "alice",
		RecipientUsername: "bob",
		DeletedBy:         "recipient",
		OccurredAt:        at,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(42), binary.BigEndian.Uint64(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "message.deleted", string(msg.Headers[0].Value))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "message.deleted", body["type"])
	assert.Equal(t, "recipient", body["deletedBy"])
	assert.NotContains(t, body, "hardDeleted")
}

func TestPublishFailsWithoutBroker(t *testing.T) {
	p := NewPublisher([]string{"127.0.0.1:1"}, "message-events")
	p.writer.MaxAttempts = 1
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := p.Publish(ctx, models.MessageEvent{Type: models.EventMessageSent, MessageID: 1})
	assert.Error(t, err)
}
