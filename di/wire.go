//go:build wireinject
// +build wireinject

package di

import (
	"stylebook/config"
	"stylebook/infras/jwt"
	"stylebook/infras/kafka"
	"stylebook/infras/otel"
	"stylebook/infras/postgres"
	"stylebook/infras/redis"
	"stylebook/infras/s3"
	"stylebook/shared/cache"
	"stylebook/transport/http"
	"stylebook/transport/http/middleware"
	"stylebook/transport/http/router"

	appointmentRepository "stylebook/internal/domains/appointment/repository"
	appointmentService "stylebook/internal/domains/appointment/service"
	authService "stylebook/internal/domains/auth/service"
	catalogRepository "stylebook/internal/domains/catalog/repository"
	catalogService "stylebook/internal/domains/catalog/service"
	clientRepository "stylebook/internal/domains/client/repository"
	lookbookRepository "stylebook/internal/domains/gallery/repository"
	lookbookService "stylebook/internal/domains/gallery/service"
	staffRepository "stylebook/internal/domains/staff/repository"
	staffService "stylebook/internal/domains/staff/service"

	appointmentHandler "stylebook/internal/handlers/appointment"
	authHandler "stylebook/internal/handlers/auth"
	catalogHandler "stylebook/internal/handlers/catalog"
	healthHandler "stylebook/internal/handlers/health"
	lookbookHandler "stylebook/internal/handlers/lookbook"
	publicHandler "stylebook/internal/handlers/public"
	staffHandler "stylebook/internal/handlers/staff"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var appointmentDomain = wire.NewSet(
	appointmentRepository.New,
	clientRepository.New,
	appointmentService.New,
)

var lookbookDomain = wire.NewSet(
	lookbookRepository.New,
	lookbookService.New,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	appointmentDomain,
	lookbookDomain,
	staffDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	publicHandler.New,
	authHandler.New,
	catalogHandler.New,
	appointmentHandler.New,
	lookbookHandler.New,
	staffHandler.New,
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
