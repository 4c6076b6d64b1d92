package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"concierge/infras/otel"
	"concierge/infras/postgres"
	"concierge/internal/domains/requestevent/model"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	gRepo "concierge/shared/repository"
	"context"
)

type Event interface {
	Insert(ctx context.Context, model model.Event) error
	ListByRequest(ctx context.Context, requestID string) ([]model.Event, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Event]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Event {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Event](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// ListByRequest returns the trail of one request, oldest first.
func (r *repositoryImpl) ListByRequest(ctx context.Context, requestID string) ([]model.Event, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".request_event.ListByRequest")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldOccurredAt, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRequestID,
				Value:    requestID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}
