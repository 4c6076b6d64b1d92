package service

import (
	"concierge/infras/otel"
	bookingModel "concierge/internal/domains/booking/model"
	bookingRepository "concierge/internal/domains/booking/repository"
	"concierge/internal/domains/dashboard/model/dto"
	requestModel "concierge/internal/domains/request/model"
	requestRepository "concierge/internal/domains/request/repository"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/timezone"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Dashboard interface {
	Get(ctx context.Context) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	bookingRepo bookingRepository.Booking
	requestRepo requestRepository.Request
	otel        otel.Otel
}

func New(bookingRepo bookingRepository.Booking, requestRepo requestRepository.Request, otel otel.Otel) Dashboard {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		requestRepo: requestRepo,
		otel:        otel,
	}
}

// Get gathers the overview counters. The figures change with every request, so nothing is cached.
func (s *serviceImpl) Get(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	today := timezone.Today()

	var recent []requestModel.Request

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		res.TotalGuests, err = s.bookingRepo.Count(gctx, gDto.FilterGroup{})
		return wrap("total guests", err)
	})

	group.Go(func() (err error) {
		res.ActiveBookings, err = s.bookingRepo.Count(gctx, ActiveBookingsFilter(today))
		return wrap("active bookings", err)
	})

	group.Go(func() (err error) {
		res.PendingRequests, err = s.requestRepo.Count(gctx, PendingRequestsFilter())
		return wrap("pending requests", err)
	})

	group.Go(func() (err error) {
		res.ResolvedToday, err = s.requestRepo.Count(gctx, ResolvedSinceFilter(today))
		return wrap("resolved today", err)
	})

	group.Go(func() (err error) {
		recent, err = s.requestRepo.GetAll(gctx, gDto.QueryParams{
			Page:    constant.DefaultValuePage,
			Limit:   dto.RecentRequests,
			SortBy:  constant.DefaultValueSortBy,
			SortDir: constant.DefaultValueSortDir,
		}, gDto.FilterGroup{})
		return wrap("recent requests", err)
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to build dashboard")

		return dto.DashboardResponse{}, err
	}

	res.FromRecent(recent)

	return res, nil
}

func wrap(figure string, err error) error {
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", figure, err)
	}

	return nil
}

// ActiveBookingsFilter matches stays that have not checked out before today.
func ActiveBookingsFilter(today time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldCheckOut,
				Value:    timezone.Format(today, constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func PendingRequestsFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    requestModel.FieldStatus,
				Value:    requestModel.StatusPending,
				Operator: gDto.FilterOperatorEq,
				Table:    requestModel.TableName,
			},
		},
	}
}

// ResolvedSinceFilter matches requests resolved at or after since.
func ResolvedSinceFilter(since time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    requestModel.FieldStatus,
				Value:    requestModel.StatusResolved,
				Operator: gDto.FilterOperatorEq,
				Table:    requestModel.TableName,
			},
			gDto.Filter{
				Field:    requestModel.FieldResolvedAt,
				Value:    since,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    requestModel.TableName,
			},
		},
	}
}
