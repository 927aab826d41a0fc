package router

import (
	"salon/internal/handlers/auth"
	"salon/internal/handlers/booking"
	"salon/internal/handlers/catalog"
	"salon/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

// APIVersion prefixes every domain route.
const APIVersion = "/v1"

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Catalog catalog.Handler
	Booking booking.Handler
}

type mountable interface {
	Router(chi.Router)
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

func (r *Router) SetupRoutes(router chi.Router) {
	handlers := []mountable{
		&r.DomainHandlers.Auth,
		&r.DomainHandlers.User,
		&r.DomainHandlers.Catalog,
		&r.DomainHandlers.Booking,
	}

	router.Route(APIVersion, func(versioned chi.Router) {
		for _, handler := range handlers {
			handler.Router(versioned)
		}
	})
}
