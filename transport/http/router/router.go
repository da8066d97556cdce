package router

import (
	"stylebook/internal/handlers/appointment"
	"stylebook/internal/handlers/auth"
	"stylebook/internal/handlers/catalog"
	"stylebook/internal/handlers/health"
	"stylebook/internal/handlers/lookbook"
	"stylebook/internal/handlers/public"
	"stylebook/internal/handlers/staff"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health      health.Handler
	Public      public.Handler
	Auth        auth.Handler
	Catalog     catalog.Handler
	Appointment appointment.Handler
	Lookbook    lookbook.Handler
	Staff       staff.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

// SetupRoutes mounts the public surface and the versioned admin API.
// The public routes carry no authentication; each admin handler group
// applies its own auth and role middleware.
func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)
	r.DomainHandlers.Public.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Appointment.Router(routerGroup)
		r.DomainHandlers.Lookbook.Router(routerGroup)
		r.DomainHandlers.Staff.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
