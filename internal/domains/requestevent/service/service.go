package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"concierge/config"
	"concierge/infras/kafka"
	"concierge/infras/otel"
	"concierge/internal/domains/requestevent/model"
	"concierge/internal/domains/requestevent/model/dto"
	"concierge/internal/domains/requestevent/repository"
	"concierge/shared/constant"
	"concierge/shared/metrics"
	gRepo "concierge/shared/repository"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RequestEvent records and lists request lifecycle events. With Kafka enabled, Record
// publishes to the request events topic and a worker persists through Store.
type RequestEvent interface {
	Record(ctx context.Context, event model.Event) error
	Store(ctx context.Context, event model.Event) error
	List(ctx context.Context, requestID string) ([]dto.EventResponse, error)
}

type serviceImpl struct {
	repo    repository.Event
	kafka   kafka.Client
	cfg     *config.Config
	metrics *metrics.Metrics
	otel    otel.Otel
}

func New(repo repository.Event, kafka kafka.Client, cfg *config.Config, metrics *metrics.Metrics, otel otel.Otel) RequestEvent {
	return &serviceImpl{
		repo:    repo,
		kafka:   kafka,
		cfg:     cfg,
		metrics: metrics,
		otel:    otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".request_event.Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"request_id": event.RequestID,
		"type":       string(event.Type),
	})

	if s.cfg.Kafka.Enable {
		err = s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.RequestEvents, kafka.Message{
			Key:   event.RequestID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("request_id", event.RequestID).Msg("failed to publish request event")

			return fmt.Errorf("failed to publish request event: %w", err)
		}
	} else if err = s.Store(ctx, event); err != nil {
		return err
	}

	s.metrics.RequestEvent(string(event.Type))

	return nil
}

// Store persists event. A redelivered event is already stored and is skipped.
func (s *serviceImpl) Store(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request_event.Store")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Insert(ctx, event); err != nil {
		if gRepo.IsUniqueViolation(err) {
			log.Debug().Str("event_id", event.ID).Msg("request event already stored")

			return nil
		}

		log.Error().Err(err).Str("request_id", event.RequestID).Msg("failed to store request event")

		return fmt.Errorf("failed to store request event: %w", err)
	}

	return nil
}

func (s *serviceImpl) List(ctx context.Context, requestID string) (res []dto.EventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request_event.List")
	defer scope.End()
	defer scope.TraceIfError(err)

	events, err := s.repo.ListByRequest(ctx, requestID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list request events")

		return res, fmt.Errorf("failed to list request events: %w", err)
	}

	return dto.FromModels(events), nil
}
