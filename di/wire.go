//go:build wireinject
// +build wireinject

package di

import (
	"concierge/config"
	"concierge/infras/jwt"
	"concierge/infras/kafka"
	"concierge/infras/otel"
	"concierge/infras/postgres"
	"concierge/infras/redis"
	"concierge/permissions"
	"concierge/shared/cache"
	"concierge/shared/changefeed"
	"concierge/shared/metrics"
	"concierge/shared/session"
	"concierge/transport/http"
	"concierge/transport/http/middleware"
	"concierge/transport/http/router"

	"github.com/google/wire"

	authService "concierge/internal/domains/auth/service"
	bookingRepository "concierge/internal/domains/booking/repository"
	bookingService "concierge/internal/domains/booking/service"
	categoryRepository "concierge/internal/domains/category/repository"
	categoryService "concierge/internal/domains/category/service"
	dashboardService "concierge/internal/domains/dashboard/service"
	requestRepository "concierge/internal/domains/request/repository"
	requestService "concierge/internal/domains/request/service"
	eventRepository "concierge/internal/domains/requestevent/repository"
	eventService "concierge/internal/domains/requestevent/service"
	staffRepository "concierge/internal/domains/staff/repository"
	staffService "concierge/internal/domains/staff/service"

	authHandler "concierge/internal/handlers/auth"
	bookingHandler "concierge/internal/handlers/booking"
	categoryHandler "concierge/internal/handlers/category"
	changesHandler "concierge/internal/handlers/changes"
	dashboardHandler "concierge/internal/handlers/dashboard"
	requestHandler "concierge/internal/handlers/request"
	staffHandler "concierge/internal/handlers/staff"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	session.NewStore,
	changefeed.New,
	metrics.New,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var categoryDomain = wire.NewSet(
	categoryRepository.New,
	categoryService.New,
)

var requestEventDomain = wire.NewSet(
	eventRepository.New,
	eventService.New,
)

var requestDomain = wire.NewSet(
	requestRepository.New,
	requestService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardService.New,
)

var domains = wire.NewSet(
	staffDomain,
	authDomain,
	bookingDomain,
	categoryDomain,
	requestEventDomain,
	requestDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	staffHandler.New,
	bookingHandler.New,
	categoryHandler.New,
	requestHandler.New,
	dashboardHandler.New,
	changesHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeConsumer builds the worker that persists request events published to Kafka.
func InitializeConsumer() *eventService.Consumer {
	wire.Build(
		configurations,
		infrastructures,
		metrics.New,
		requestEventDomain,
		eventService.NewConsumer,
	)

	return &eventService.Consumer{}
}

func InitializeStaffRepository() staffRepository.Staff {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		staffRepository.New,
	)

	return nil
}
