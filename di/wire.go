//go:build wireinject
// +build wireinject

package di

import (
	"spacebook/config"
	"spacebook/infras/jwt"
	"spacebook/infras/kafka"
	"spacebook/infras/otel"
	"spacebook/infras/payment"
	"spacebook/infras/postgres"
	"spacebook/infras/redis"
	"spacebook/permissions"
	"spacebook/shared/cache"
	"spacebook/transport/cron"
	"spacebook/transport/http"
	"spacebook/transport/http/middleware"
	"spacebook/transport/http/router"

	availabilityService "spacebook/internal/domains/availability/service"
	"spacebook/internal/domains/booking/coordinator"
	bookingRepository "spacebook/internal/domains/booking/repository"
	bookingService "spacebook/internal/domains/booking/service"
	spaceRepository "spacebook/internal/domains/space/repository"
	spaceService "spacebook/internal/domains/space/service"
	availabilityHandler "spacebook/internal/handlers/availability"
	bookingHandler "spacebook/internal/handlers/booking"

	"github.com/google/wire"
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
	payment.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var spaceDomain = wire.NewSet(
	spaceRepository.New,
	spaceRepository.NewException,
	spaceService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	availabilityService.New,
)

var domains = wire.NewSet(
	spaceDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	bookingHandler.New,
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

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		cron.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeConsole() *Console {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		coordinator.NewLocal,
		wire.Struct(new(Console), "*"),
	)

	return &Console{}
}
