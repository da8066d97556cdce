package public

import (
	"net/http"
	"stylebook/infras/otel"
	appointmentDto "stylebook/internal/domains/appointment/model/dto"
	appointmentService "stylebook/internal/domains/appointment/service"
	catalogService "stylebook/internal/domains/catalog/service"
	lookbookService "stylebook/internal/domains/gallery/service"
	"stylebook/shared/constant"
	"stylebook/shared/validator"
	"stylebook/transport/http/middleware"
	"stylebook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// Handler serves the unauthenticated surface the booking site talks to:
// the service catalog, the lookbook, slot availability, and booking itself.
type Handler struct {
	appointments appointmentService.Appointment
	catalog      catalogService.Catalog
	lookbook     lookbookService.Lookbook
	middleware   middleware.AppMiddleware
	otel         otel.Otel
}

func New(
	appointments appointmentService.Appointment,
	catalog catalogService.Catalog,
	lookbook lookbookService.Lookbook,
	appMiddleware middleware.AppMiddleware,
	otel otel.Otel,
) Handler {
	return Handler{
		appointments: appointments,
		catalog:      catalog,
		lookbook:     lookbook,
		middleware:   appMiddleware,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/public", func(routerGroup chi.Router) {
		routerGroup.Get("/services", handler.GetServices)
		routerGroup.Get("/lookbook", handler.GetLookbook)

		routerGroup.Route("/appointments", func(appointmentGroup chi.Router) {
			appointmentGroup.Get("/occupied", handler.GetOccupiedSlots)
			appointmentGroup.With(handler.middleware.BookingRateLimit()).Post("/", handler.CreateAppointment)
		})
	})
}

// GetServices returns the bookable services.
// @Summary Get bookable services
// @Description Retrieve the active services guests can book.
// @Tags Public
// @Produce json
// @Success 200 {array} dto.PublicServiceResponse "List of services"
// @Failure 500 {object} response.Error
// @Router /public/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	services, err := handler.catalog.ListPublic(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, services)
}

// GetLookbook returns the style showcase.
// @Summary Get the lookbook
// @Description Retrieve the showcased haircut styles, featured first.
// @Tags Public
// @Produce json
// @Success 200 {array} dto.PublicStyleResponse "List of styles"
// @Failure 500 {object} response.Error
// @Router /public/lookbook [get]
func (handler *Handler) GetLookbook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLookbook")
	defer scope.End()

	styles, err := handler.lookbook.ListPublic(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get public lookbook")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, styles)
}

// GetOccupiedSlots returns the taken instants for a service on a day. The
// booking form polls this while a guest is picking a slot.
// @Summary Get occupied slots
// @Description Retrieve the taken appointment instants for one service on one day.
// @Tags Public
// @Produce json
// @Param service_id query string true "Service ID"
// @Param date query string true "Calendar day, YYYY-MM-DD"
// @Success 200 {array} dto.OccupiedAppointmentResponse "Occupied instants"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /public/appointments/occupied [get]
func (handler *Handler) GetOccupiedSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupiedSlots")
	defer scope.End()

	serviceID := r.URL.Query().Get(constant.RequestParamServiceID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	occupied, err := handler.appointments.ListOccupied(ctx, serviceID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupied slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, occupied)
}

// CreateAppointment books a slot for a guest.
// @Summary Book an appointment
// @Description Book a slot. Returns 409 when the slot was taken by someone else.
// @Tags Public
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} dto.PublicAppointmentResponse "Appointment booked"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 429 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /public/appointments [post]
func (handler *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAppointment")
	defer scope.End()

	req := appointmentDto.CreateAppointmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.appointments.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to create appointment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Appointment booked for service " + res.ServiceID)

	response.WithJSON(w, http.StatusCreated, res)
}
