package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"concierge/infras/otel"
	"concierge/infras/postgres"
	requestModel "concierge/internal/domains/request/model"
	"concierge/internal/domains/staff/model"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	gRepo "concierge/shared/repository"
	"context"
	"fmt"
)

var (
	releaseAssignmentsQuery = fmt.Sprintf(
		"UPDATE %s SET %s = NULL, %s = NULL, modified_at = NOW() WHERE %s = $1",
		requestModel.TableName, requestModel.FieldAssignedTo, requestModel.FieldAssignedAt, requestModel.FieldAssignedTo,
	)
	deleteStaffQuery = fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.TableName, model.FieldID)
)

type Staff interface {
	Insert(ctx context.Context, model model.Staff) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Staff, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Staff, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByEmail(ctx context.Context, email string) (model.Staff, error)
	ListActive(ctx context.Context) ([]model.Staff, error)
	Remove(ctx context.Context, id string) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Staff]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Staff {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Staff](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByEmail returns a zero Staff when no account uses email.
func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (model.Staff, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff.GetByEmail")
	defer scope.End()

	return r.Get(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Value:    email,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	})
}

// ListActive returns every active staff member ordered by name.
func (r *repositoryImpl) ListActive(ctx context.Context) ([]model.Staff, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff.ListActive")
	defer scope.End()

	params := gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// Remove deletes a staff account and unassigns its requests in one transaction.
// It reports how many requests were released.
func (r *repositoryImpl) Remove(ctx context.Context, id string) (released int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff.Remove")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := r.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin staff removal: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, releaseAssignmentsQuery, id)
	if err != nil {
		return 0, fmt.Errorf("failed to release assignments: %w", err)
	}

	released, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count released assignments: %w", err)
	}

	if _, err = tx.ExecContext(ctx, deleteStaffQuery, id); err != nil {
		return 0, fmt.Errorf("failed to delete staff: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit staff removal: %w", err)
	}

	return released, nil
}
