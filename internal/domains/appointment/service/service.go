package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"stylebook/config"
	"stylebook/infras/kafka"
	"stylebook/infras/otel"
	"stylebook/internal/domains/appointment/model"
	"stylebook/internal/domains/appointment/model/dto"
	"stylebook/internal/domains/appointment/repository"
	clientModel "stylebook/internal/domains/client/model"
	clientRepo "stylebook/internal/domains/client/repository"
	catalogModel "stylebook/internal/domains/catalog/model"
	catalogRepo "stylebook/internal/domains/catalog/repository"
	"stylebook/shared"
	"stylebook/shared/cache"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	"stylebook/shared/failure"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllAppointments = "appointment:gets"
	cacheCountAppointments  = "appointment:count"

	msgSlotTaken = "that time slot has just been booked, please pick another one"
)

var nonDigit = regexp.MustCompile(`\D`)

type Appointment interface {
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (dto.PublicAppointmentResponse, error)
	ListOccupied(ctx context.Context, serviceID, date string) ([]dto.OccupiedAppointmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAppointmentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	UpdateStatus(ctx context.Context, req dto.UpdateAppointmentStatusRequest, id string) error
}

type serviceImpl struct {
	repo     repository.Appointment
	clients  clientRepo.Client
	catalog  catalogRepo.Catalog
	cfg      *config.Config
	cache    cache.RedisCache
	producer kafka.Client
	otel     otel.Otel
}

func New(
	repo repository.Appointment,
	clients clientRepo.Client,
	catalog catalogRepo.Catalog,
	cfg *config.Config,
	cache cache.RedisCache,
	producer kafka.Client,
	otel otel.Otel,
) Appointment {
	return &serviceImpl{
		repo:     repo,
		clients:  clients,
		catalog:  catalog,
		cfg:      cfg,
		cache:    cache,
		producer: producer,
		otel:     otel,
	}
}

// Create books a slot for a walk-in client. Two guests racing for the same
// slot are resolved in two stages: a pre-insert existence check catches the
// common case, and the partial unique index on (service_id, appointment_at)
// catches the race the check misses. Both surface as the same conflict so the
// booking form can refresh availability and ask the guest to pick again.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAppointmentRequest) (res dto.PublicAppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	name := normalizeName(req.ClientName)
	phone, err := normalizePhone(req.ClientPhone)
	if err != nil {
		return res, err
	}

	appointmentAt, err := req.ParseAppointmentAt()
	if err != nil {
		log.Warn().Err(err).Str("appointmentAt", req.AppointmentAt).Msg("invalid appointment time")

		return res, failure.BadRequestFromString("appointment_at must be a valid RFC3339 timestamp") // nolint:wrapcheck
	}

	svc, err := s.catalog.Get(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service for appointment")

		return res, fmt.Errorf("failed to get service for appointment: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	if !svc.Active {
		return res, failure.BadRequestFromString("service is not available for booking") // nolint:wrapcheck
	}

	taken, err := s.repo.Exist(ctx, occupiedSlotFilter(req.ServiceID, appointmentAt))
	if err != nil {
		log.Error().Err(err).Msg("failed to check slot availability")

		return res, fmt.Errorf("failed to check slot availability: %w", err)
	}

	if taken {
		return res, failure.Conflict(msgSlotTaken) // nolint:wrapcheck
	}

	client, err := s.findOrCreateClient(ctx, name, req.ClientPhone, phone)
	if err != nil {
		return res, err
	}

	appointment := req.ToModel(client.ID, appointmentAt)

	if err = s.repo.Insert(ctx, appointment); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			log.Info().
				Str("serviceID", req.ServiceID).
				Time("appointmentAt", appointmentAt).
				Msg("lost booking race, slot taken between check and insert")

			return res, failure.Conflict(msgSlotTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create appointment")

		return res, fmt.Errorf("failed to create appointment: %w", err)
	}

	res.FromModel(appointment)

	s.publishCreated(ctx, appointment, name, phone)
	s.invalidateListCaches(ctx)

	return res, nil
}

// ListOccupied returns the taken instants for one service on one calendar
// day. The result backs the availability view guests poll while picking a
// slot, so it is read straight from the database every time. Caching here
// would let a guest pick a slot that is already gone.
func (s *serviceImpl) ListOccupied(ctx context.Context, serviceID, date string) (res []dto.OccupiedAppointmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOccupied")
	defer scope.End()
	defer scope.TraceIfError(err)

	if serviceID == constant.Empty {
		return res, failure.BadRequestFromString("service_id is required") // nolint:wrapcheck
	}

	dayStart, err := timezone.Parse(constant.CalendarDayFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	dayEnd := dayStart.AddDate(0, 0, 1)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    serviceID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldAppointmentAt,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    dayStart,
				Table:    model.TableName,
				ArgName:  "appointment_from",
			},
			gDto.Filter{
				Field:    model.FieldAppointmentAt,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    model.TableName,
				ArgName:  "appointment_until",
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{constant.AppointmentStatusPending, constant.AppointmentStatusConfirmed},
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldAppointmentAt, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter, model.FieldAppointmentAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to get occupied slots")

		return res, fmt.Errorf("failed to get occupied slots: %w", err)
	}

	res = make([]dto.OccupiedAppointmentResponse, len(models))
	for i, mod := range models {
		res[i].AppointmentAt = mod.AppointmentAt.UTC().Format(constant.DateFormat)
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAppointmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAppointments, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for appointments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get appointments")

		return res, fmt.Errorf("failed to get appointments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountAppointments, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count appointments")

		return res, fmt.Errorf("failed to count appointments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save appointment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateAppointmentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if appointment exists")

		return fmt.Errorf("failed to check if appointment exists: %w", err)
	}

	if !exist {
		return failure.NotFound("appointment not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update appointment status")

		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	s.invalidateListCaches(ctx)

	return nil
}

// findOrCreateClient looks the client up by normalized phone so repeat
// bookings reuse one record. A lost insert race falls back to re-reading the
// row the winner created.
func (s *serviceImpl) findOrCreateClient(ctx context.Context, name, rawPhone, normalizedPhone string) (res clientModel.Client, err error) {
	filter := shared.FilterByID(normalizedPhone, clientModel.FieldPhoneNormalized, clientModel.TableName)

	res, err = s.clients.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get client")

		return res, fmt.Errorf("failed to get client: %w", err)
	}

	if res.ID != constant.Empty {
		return res, nil
	}

	res = clientModel.Client{
		ID:              uuid.NewString(),
		Name:            name,
		Phone:           strings.TrimSpace(rawPhone),
		PhoneNormalized: normalizedPhone,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ContextGuest,
			ModifiedBy: constant.ContextGuest,
		},
	}

	if err = s.clients.Insert(ctx, res); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			res, err = s.clients.Get(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get client after insert race")

				return res, fmt.Errorf("failed to get client after insert race: %w", err)
			}

			return res, nil
		}

		log.Error().Err(err).Msg("failed to create client")

		return res, fmt.Errorf("failed to create client: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) publishCreated(ctx context.Context, appointment model.Appointment, clientName, clientPhone string) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.AppointmentCreatedEvent{
			AppointmentID: appointment.ID,
			ServiceID:     appointment.ServiceID,
			ClientName:    clientName,
			ClientPhone:   clientPhone,
			AppointmentAt: appointment.AppointmentAt.UTC().Format(constant.DateFormat),
		}

		message := kafka.Message{Key: appointment.ID, Value: event}

		if err := s.producer.SendMessages(c, s.cfg.Kafka.Topic.AppointmentCreated, message); err != nil {
			log.Error().Err(err).Str("appointmentID", appointment.ID).Msg("failed to publish appointment created event")
		}
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllAppointments)
		shared.InvalidateCaches(c, s.cache, cacheCountAppointments)
	}()
}

func occupiedSlotFilter(serviceID string, appointmentAt time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldServiceID,
				Operator: gDto.FilterOperatorEq,
				Value:    serviceID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldAppointmentAt,
				Operator: gDto.FilterOperatorEq,
				Value:    appointmentAt,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{constant.AppointmentStatusPending, constant.AppointmentStatusConfirmed},
				Table:    model.TableName,
			},
		},
	}
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func normalizePhone(phone string) (string, error) {
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) < 8 || len(digits) > 15 {
		return "", failure.BadRequestFromString("phone number must contain 8 to 15 digits") // nolint:wrapcheck
	}

	return digits, nil
}
