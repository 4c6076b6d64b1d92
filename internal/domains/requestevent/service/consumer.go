package service

import (
	"concierge/config"
	"concierge/infras/kafka"
	"concierge/internal/domains/requestevent/model"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer moves request events from Kafka into the request_events table.
type Consumer struct {
	client kafka.Client
	events RequestEvent
	cfg    *config.Config
}

func NewConsumer(client kafka.Client, events RequestEvent, cfg *config.Config) *Consumer {
	return &Consumer{
		client: client,
		events: events,
		cfg:    cfg,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	topic := c.cfg.Kafka.Topics.RequestEvents

	log.Info().Str("topic", topic).Str("group", c.cfg.Kafka.ConsumerGroup).Msg("consuming request events")

	if err := c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, topic, c.Handle); err != nil {
		return fmt.Errorf("failed to consume request events: %w", err)
	}

	return nil
}

// Handle stores one message. Undecodable messages are dropped.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) error {
	event, err := kafka.DecodeKafkaMessage[model.Event](message)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if event.ID == "" || event.RequestID == "" {
		return fmt.Errorf("request event at offset %d is missing its ids", message.Offset)
	}

	return c.events.Store(ctx, event)
}
