//go:build wireinject
// +build wireinject

package di

import (
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/infras/redis"
	"salon/permissions"
	"salon/shared/cache"
	"salon/shared/timezone"
	"salon/transport/http"
	"salon/transport/http/middleware"
	"salon/transport/http/router"

	"github.com/google/wire"

	authService "salon/internal/domains/auth/service"
	bookingAccess "salon/internal/domains/booking/access"
	bookingPricing "salon/internal/domains/booking/pricing"
	bookingRepository "salon/internal/domains/booking/repository"
	bookingService "salon/internal/domains/booking/service"
	catalogRepository "salon/internal/domains/catalog/repository"
	catalogService "salon/internal/domains/catalog/service"
	userRepository "salon/internal/domains/user/repository"
	userService "salon/internal/domains/user/service"
	authHandler "salon/internal/handlers/auth"
	bookingHandler "salon/internal/handlers/booking"
	catalogHandler "salon/internal/handlers/catalog"
	userHandler "salon/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
	timezone.SystemClock,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	cache.NewRedisCache,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

// Each domain set runs from its repository to its HTTP handler.
var (
	userDomain = wire.NewSet(
		userRepository.New,
		userRepository.NewCustomerProfile,
		userService.New,
		userHandler.New,
	)

	authDomain = wire.NewSet(
		authService.New,
		authHandler.New,
	)

	catalogDomain = wire.NewSet(
		catalogRepository.New,
		catalogService.New,
		catalogHandler.New,
	)

	bookingDomain = wire.NewSet(
		bookingRepository.New,
		bookingAccess.NewGate,
		bookingPricing.New,
		bookingService.New,
		bookingHandler.New,
	)
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		userDomain,
		authDomain,
		catalogDomain,
		bookingDomain,
		wire.Struct(new(router.DomainHandlers), "*"),
		router.New,
		http.New,
	)

	return &http.HTTP{}
}
