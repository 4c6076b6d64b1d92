package kafka_test

import (
	"concierge/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
}

func TestMessageRoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "req-1", Value: event{RequestID: "req-1", Type: "assigned"}}

	encoded, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("req-1"), encoded.Key)
	assert.JSONEq(t, `{"request_id":"req-1","type":"assigned"}`, string(encoded.Value))

	decoded, err := kafka.DecodeKafkaMessage[event](encoded)
	require.NoError(t, err)
	assert.Equal(t, "assigned", decoded.Type)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: "not an object"}
	encoded, err := msg.ToKafkaMessage()
	require.NoError(t, err)

	_, err = kafka.DecodeKafkaMessage[event](encoded)
	assert.Error(t, err)
}

func TestUnencodableValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage()
	assert.Error(t, err)
}
