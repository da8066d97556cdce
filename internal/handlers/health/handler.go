package health

import (
	"net/http"
	"stylebook/infras/otel"
	"stylebook/infras/postgres"
	"stylebook/shared/constant"
	"stylebook/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	db    *postgres.Connection
	redis *goRedis.Client
	otel  otel.Otel
}

func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Handler {
	return Handler{
		db:    db,
		redis: redis,
		otel:  otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Get("/health", handler.Health)
}

// Health reports whether the service and its backing stores are reachable.
// @Summary Health check
// @Description Check connectivity to the database and cache.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message "OK"
// @Failure 503 {object} response.Error
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	if err := handler.db.Read.PingContext(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("read database is unreachable")

		response.WithUnhealthy(w)

		return
	}

	if err := handler.db.Write.PingContext(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("write database is unreachable")

		response.WithUnhealthy(w)

		return
	}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("cache is unreachable")

		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
