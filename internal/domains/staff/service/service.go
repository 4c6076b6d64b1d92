package service

import (
	"concierge/config"
	"concierge/infras/otel"
	requestModel "concierge/internal/domains/request/model"
	"concierge/internal/domains/staff/model"
	"concierge/internal/domains/staff/model/dto"
	"concierge/internal/domains/staff/repository"
	"concierge/shared"
	"concierge/shared/cache"
	"concierge/shared/changefeed"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
	"concierge/shared/password"
	gRepo "concierge/shared/repository"
	"concierge/shared/session"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetStaff    = "staff:get"
	cacheGetAllStaff = "staff:gets"
	cacheCountStaff  = "staff:count"
)

const errEmailTaken = "email already registered"

type Staff interface {
	Create(ctx context.Context, req dto.CreateStaffRequest) (dto.StaffResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetStaffResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.StaffResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStaffStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Staff
	cfg   *config.Config
	cache cache.RedisCache
	feed  changefeed.Feed
	otel  otel.Otel
}

func New(repo repository.Staff, cfg *config.Config, cache cache.RedisCache, feed changefeed.Feed, otel otel.Otel) Staff {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		feed:  feed,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStaffRequest) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    dto.NormalizeEmail(req.Email),
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return res, fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(errEmailTaken)
	}

	hashedPassword, err := password.HashWithCost(req.Password, password.StaffCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := req.ToModel(session.Actor(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, staff); err != nil {
		// two concurrent creates can both pass the existence check
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict(errEmailTaken)
		}

		log.Error().Err(err).Msg("failed to create staff")

		return res, fmt.Errorf("failed to create staff: %w", err)
	}

	res.FromModel(staff)

	s.changed(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetStaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStaff, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountStaff, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetStaff, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff member")

		return res, nil
	}

	staff, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == "" {
		return res, failure.NotFound("staff not found")
	}

	res.FromModel(staff)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff member to cache")
		}
	}()

	return res, nil
}

// UpdateStatus activates or deactivates an account. Deactivation takes effect at the next login.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStaffStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsActive == nil {
		return failure.BadRequestFromString("is_active is required")
	}

	if !*req.IsActive && isSelf(ctx, id) {
		return failure.BadRequestFromString("you cannot deactivate your own account")
	}

	if err = s.ensureExists(ctx, id); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, session.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update staff status")

		return fmt.Errorf("failed to update staff status: %w", err)
	}

	s.evict(ctx, id)
	s.changed(ctx)

	return nil
}

// Delete removes an account. Requests assigned to it go back to unassigned.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if isSelf(ctx, id) {
		return failure.BadRequestFromString("you cannot delete your own account")
	}

	if err = s.ensureExists(ctx, id); err != nil {
		return err
	}

	released, err := s.repo.Remove(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete staff")

		return fmt.Errorf("failed to delete staff: %w", err)
	}

	s.evict(ctx, id)

	if released > 0 {
		log.Info().Str("staffID", id).Int64("released", released).Msg("unassigned requests of deleted staff")
		s.changed(ctx, requestModel.TableName)

		return nil
	}

	s.changed(ctx)

	return nil
}

func (s *serviceImpl) ensureExists(ctx context.Context, id string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if !exist {
		return failure.NotFound("staff not found")
	}

	return nil
}

func (s *serviceImpl) evict(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStaff, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete staff cache")
		}
	}()
}

// changed drops the list caches and tells subscribers that staff_users moved,
// along with any other table the write touched.
func (s *serviceImpl) changed(ctx context.Context, touched ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllStaff)
		shared.InvalidateCaches(c, s.cache, cacheCountStaff)

		for _, table := range append([]string{model.TableName}, touched...) {
			if err := s.feed.Publish(c, table); err != nil {
				log.Error().Err(err).Str("table", table).Msg("failed to publish staff change")
			}
		}
	}()
}

func isSelf(ctx context.Context, id string) bool {
	identity := session.FromContext(ctx)

	return identity != nil && identity.ID == id
}
