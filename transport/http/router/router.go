package router

import (
	"concierge/internal/handlers/auth"
	"concierge/internal/handlers/booking"
	"concierge/internal/handlers/category"
	"concierge/internal/handlers/changes"
	"concierge/internal/handlers/dashboard"
	"concierge/internal/handlers/request"
	"concierge/internal/handlers/staff"
	"concierge/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth      auth.Handler
	Staff     staff.Handler
	Booking   booking.Handler
	Category  category.Handler
	Request   request.Handler
	Dashboard dashboard.Handler
	Changes   changes.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.App.Tracing,
			r.App.Metrics,
			r.App.CORS(),
			r.App.RateLimit(),
			r.AuthRole.APIKey,
			r.AuthRole.Auth,
			r.AuthRole.RBAC,
		)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Category.Router(routerGroup)
		r.DomainHandlers.Request.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
		r.DomainHandlers.Changes.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
