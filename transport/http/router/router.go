package router

import (
	"spacebook/internal/handlers/availability"
	"spacebook/internal/handlers/booking"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

// mounter is anything that registers its own routes on a chi router.
type mounter interface {
	Router(router chi.Router)
}

type DomainHandlers struct {
	Availability availability.Handler
	Booking      booking.Handler
}

func (d *DomainHandlers) mounters() []mounter {
	return []mounter{&d.Availability, &d.Booking}
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

// SetupRoutes mounts every domain under the versioned prefix.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiVersion, func(versioned chi.Router) {
		for _, handler := range r.DomainHandlers.mounters() {
			handler.Router(versioned)
		}
	})
}
