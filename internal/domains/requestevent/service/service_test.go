package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"concierge/config"
	"concierge/infras/kafka"
	kafkaMocks "concierge/infras/kafka/mocks"
	"concierge/infras/otel/mocks"
	eventMocks "concierge/internal/domains/requestevent/mocks"
	"concierge/internal/domains/requestevent/model"
	"concierge/internal/domains/requestevent/service"
	"concierge/shared/metrics"
)

const eventsCounter = `
# HELP concierge_request_events_total Guest request lifecycle events, by type
# TYPE concierge_request_events_total counter
concierge_request_events_total{type="assigned"} 1
`

func newEvent() model.Event {
	return model.New("r1", model.TypeAssigned, "admin-1", "", "staff-1", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestEventService_Record(t *testing.T) {
	t.Run("writes straight to the table without kafka", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := eventMocks.NewMockEvent(ctrl)
		client := kafkaMocks.NewMockClient(ctrl)
		m := metrics.New()

		svc := service.New(repo, client, &config.Config{}, m, mocks.NewOtel())

		event := newEvent()
		repo.EXPECT().Insert(gomock.Any(), event).Return(nil)

		require.NoError(t, svc.Record(context.Background(), event))
		assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(eventsCounter), "concierge_request_events_total"))
	})

	t.Run("publishes keyed by request with kafka", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := eventMocks.NewMockEvent(ctrl)
		client := kafkaMocks.NewMockClient(ctrl)

		cfg := &config.Config{}
		cfg.Kafka.Enable = true
		cfg.Kafka.Topics.RequestEvents = "request-events"

		svc := service.New(repo, client, cfg, metrics.New(), mocks.NewOtel())

		event := newEvent()
		client.EXPECT().
			SendMessages(gomock.Any(), "request-events", kafka.Message{Key: "r1", Value: event}).
			Return(nil)

		assert.NoError(t, svc.Record(context.Background(), event))
	})

	t.Run("publish failure is returned and not counted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)
		m := metrics.New()

		cfg := &config.Config{}
		cfg.Kafka.Enable = true

		svc := service.New(eventMocks.NewMockEvent(ctrl), client, cfg, m, mocks.NewOtel())

		client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.Error(t, svc.Record(context.Background(), newEvent()))

		count, err := testutil.GatherAndCount(m.Registry(), "concierge_request_events_total")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestEventService_Store(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "stored"},
		{name: "redelivery is ignored", err: &pq.Error{Code: "23505"}},
		{name: "database error", err: errors.New("database error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := eventMocks.NewMockEvent(ctrl)

			svc := service.New(repo, kafkaMocks.NewMockClient(ctrl), &config.Config{}, metrics.New(), mocks.NewOtel())

			repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(tt.err)

			err := svc.Store(context.Background(), newEvent())
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestEventService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := eventMocks.NewMockEvent(ctrl)

	svc := service.New(repo, kafkaMocks.NewMockClient(ctrl), &config.Config{}, metrics.New(), mocks.NewOtel())

	repo.EXPECT().ListByRequest(gomock.Any(), "r1").Return([]model.Event{newEvent()}, nil)

	res, err := svc.List(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "staff-1", res[0].To)
	assert.Empty(t, res[0].From)
}

func TestConsumer_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := eventMocks.NewMockRequestEvent(ctrl)

	consumer := service.NewConsumer(kafkaMocks.NewMockClient(ctrl), events, &config.Config{})

	event := newEvent()
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	events.EXPECT().Store(gomock.Any(), event).Return(nil)

	assert.NoError(t, consumer.Handle(context.Background(), kafkaGo.Message{Value: payload}))
	assert.Error(t, consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte("not json")}))
	assert.Error(t, consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte(`{"type":"assigned"}`)}))
}

func TestConsumer_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "concierge-worker"
	cfg.Kafka.Topics.RequestEvents = "request-events"

	consumer := service.NewConsumer(client, eventMocks.NewMockRequestEvent(ctrl), cfg)

	client.EXPECT().Consume(gomock.Any(), "concierge-worker", "request-events", gomock.Any()).Return(nil)

	assert.NoError(t, consumer.Run(context.Background()))
}
