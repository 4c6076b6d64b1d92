package service

import (
	"concierge/config"
	"concierge/infras/otel"
	bookingModel "concierge/internal/domains/booking/model"
	bookingRepo "concierge/internal/domains/booking/repository"
	categoryModel "concierge/internal/domains/category/model"
	categoryRepo "concierge/internal/domains/category/repository"
	"concierge/internal/domains/request/model"
	"concierge/internal/domains/request/model/dto"
	"concierge/internal/domains/request/policy"
	"concierge/internal/domains/request/repository"
	eventModel "concierge/internal/domains/requestevent/model"
	eventDto "concierge/internal/domains/requestevent/model/dto"
	eventService "concierge/internal/domains/requestevent/service"
	staffModel "concierge/internal/domains/staff/model"
	staffRepo "concierge/internal/domains/staff/repository"
	"concierge/permissions"
	"concierge/shared"
	"concierge/shared/changefeed"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
	"concierge/shared/session"
	"concierge/shared/timezone"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const errRequestNotFound = "request not found"

// Request applies the lifecycle policy to stored requests. Every mutation is a
// single row update; concurrent writers race and the last one wins.
type Request interface {
	Create(ctx context.Context, req dto.CreateRequestRequest) (dto.RequestResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRequestsResponse, error)
	Get(ctx context.Context, id string) (dto.RequestResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	UpdatePriority(ctx context.Context, req dto.UpdatePriorityRequest, id string) error
	Assign(ctx context.Context, req dto.AssignRequest, id string) error
	Candidates(ctx context.Context, id string) ([]dto.CandidateResponse, error)
	Events(ctx context.Context, id string) ([]eventDto.EventResponse, error)
}

type serviceImpl struct {
	repo         repository.Request
	bookingRepo  bookingRepo.Booking
	categoryRepo categoryRepo.Category
	staffRepo    staffRepo.Staff
	events       eventService.RequestEvent
	feed         changefeed.Feed
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Request,
	bookingRepo bookingRepo.Booking,
	categoryRepo categoryRepo.Category,
	staffRepo staffRepo.Staff,
	events eventService.RequestEvent,
	feed changefeed.Feed,
	cfg *config.Config,
	otel otel.Otel,
) Request {
	return &serviceImpl{
		repo:         repo,
		bookingRepo:  bookingRepo,
		categoryRepo: categoryRepo,
		staffRepo:    staffRepo,
		events:       events,
		feed:         feed,
		cfg:          cfg,
		otel:         otel,
	}
}

// Create files a request for an existing guest. Without a category the message
// is matched against the category keywords.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRequestRequest) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	guestExists, err := s.bookingRepo.Exist(ctx, shared.FilterByID(req.GuestID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if !guestExists {
		return res, failure.BadRequestFromString("guest does not exist") // nolint:wrapcheck
	}

	category, err := s.resolveCategory(ctx, req)
	if err != nil {
		return res, err
	}

	var categoryID *string
	if category != nil {
		categoryID = &category.ID
	}

	request := req.ToModel(session.Actor(ctx), categoryID)

	if err = s.repo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create request")

		return res, fmt.Errorf("failed to create request: %w", err)
	}

	res.FromModel(request)

	s.record(ctx, eventModel.New(request.ID, eventModel.TypeCreated, session.Actor(ctx), "", string(request.Status), request.CreatedAt))
	s.changed(ctx)

	return res, nil
}

func (s *serviceImpl) resolveCategory(ctx context.Context, req dto.CreateRequestRequest) (*categoryModel.Category, error) {
	if req.CategoryID != nil && *req.CategoryID != "" {
		category, err := s.category(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}

		if category == nil {
			return nil, failure.BadRequestFromString("category does not exist") // nolint:wrapcheck
		}

		return category, nil
	}

	categories, err := s.categoryRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return policy.Classify(req.Message, categories), nil
}

// GetAll lists requests newest first, narrowed to the caller's assignments
// unless the caller manages requests.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	visible := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{filter, policy.Visibility(session.FromContext(ctx))},
	}

	total, err := s.repo.Count(ctx, visible)
	if err != nil {
		log.Error().Err(err).Msg("failed to count requests")

		return res, fmt.Errorf("failed to count requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, visible)
	if err != nil {
		log.Error().Err(err).Msg("failed to get requests")

		return res, fmt.Errorf("failed to get requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.visible(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(request)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.visible(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanUpdateStatus(session.FromContext(ctx), request) {
		return failure.ForbiddenError
	}

	now := timezone.Now()

	fields, err := policy.StatusChange(request, req.Status, now)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.update(ctx, fields, id); err != nil {
		return err
	}

	s.record(ctx, eventModel.New(id, eventModel.TypeStatusChanged, session.Actor(ctx), string(request.Status), string(req.Status), now))
	s.changed(ctx)

	return nil
}

func (s *serviceImpl) UpdatePriority(ctx context.Context, req dto.UpdatePriorityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.UpdatePriority")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !canManage(ctx) {
		return failure.ForbiddenError
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	fields, err := policy.PriorityChange(req.Priority)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.update(ctx, fields, id); err != nil {
		return err
	}

	s.record(ctx, eventModel.New(id, eventModel.TypePriorityChanged, session.Actor(ctx), string(request.Priority), string(req.Priority), timezone.Now()))
	s.changed(ctx)

	return nil
}

// Assign hands the request to an eligible staff member and reopens it if it was resolved.
func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !canManage(ctx) {
		return failure.ForbiddenError
	}

	request, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	staff, err := s.staffRepo.Get(ctx, shared.FilterByID(req.StaffID, staffModel.FieldID, staffModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == "" {
		return failure.BadRequestFromString("staff member does not exist") // nolint:wrapcheck
	}

	category, err := s.category(ctx, request.CategoryID)
	if err != nil {
		return err
	}

	if !policy.Eligible(staff, category) {
		return failure.BadRequestFromString("staff member is not eligible for this request") // nolint:wrapcheck
	}

	now := timezone.Now()

	if err = s.update(ctx, policy.Assignment(staff.ID, now), id); err != nil {
		return err
	}

	previous := ""
	if request.AssignedTo != nil {
		previous = *request.AssignedTo
	}

	s.record(ctx, eventModel.New(id, eventModel.TypeAssigned, session.Actor(ctx), previous, staff.ID, now))
	s.changed(ctx)

	return nil
}

// Candidates lists the active staff the request may be assigned to.
func (s *serviceImpl) Candidates(ctx context.Context, id string) (res []dto.CandidateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Candidates")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	category, err := s.category(ctx, request.CategoryID)
	if err != nil {
		return res, err
	}

	staff, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active staff")

		return res, fmt.Errorf("failed to list active staff: %w", err)
	}

	return dto.CandidatesFromModels(policy.Candidates(staff, category)), nil
}

func (s *serviceImpl) Events(ctx context.Context, id string) (res []eventDto.EventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Events")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.visible(ctx, id); err != nil {
		return res, err
	}

	return s.events.List(ctx, id) //nolint:wrapcheck
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Request, error) {
	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get request")

		return request, fmt.Errorf("failed to get request: %w", err)
	}

	if request.ID == "" {
		return request, failure.NotFound(errRequestNotFound)
	}

	return request, nil
}

// visible loads the request and hides it from callers who may not see it.
func (s *serviceImpl) visible(ctx context.Context, id string) (model.Request, error) {
	request, err := s.load(ctx, id)
	if err != nil {
		return request, err
	}

	if !policy.CanView(session.FromContext(ctx), request) {
		return model.Request{}, failure.NotFound(errRequestNotFound)
	}

	return request, nil
}

func (s *serviceImpl) category(ctx context.Context, id *string) (*categoryModel.Category, error) {
	if id == nil {
		return nil, nil
	}

	category, err := s.categoryRepo.Get(ctx, shared.FilterByID(*id, categoryModel.FieldID, categoryModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get category")

		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == "" {
		return nil, nil
	}

	return &category, nil
}

func (s *serviceImpl) update(ctx context.Context, fields policy.Fields, id string) error {
	updated := shared.Stamp(fields, session.Actor(ctx))

	if err := s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("failed to update request")

		return fmt.Errorf("failed to update request: %w", err)
	}

	return nil
}

// record keeps the audit trail. The row is already written, so a failure here
// is logged and does not fail the caller.
func (s *serviceImpl) record(ctx context.Context, event eventModel.Event) {
	if err := s.events.Record(ctx, event); err != nil {
		log.Error().Err(err).Str("request_id", event.RequestID).Str("type", string(event.Type)).Msg("failed to record request event")
	}
}

func canManage(ctx context.Context) bool {
	return session.FromContext(ctx).HasPermission(permissions.ManageRequests)
}

func (s *serviceImpl) changed(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.feed.Publish(c, model.TableName); err != nil {
			log.Error().Err(err).Msg("failed to publish request change")
		}
	}()
}
