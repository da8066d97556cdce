package appointment

import (
	"net/http"
	"stylebook/infras/otel"
	"stylebook/internal/domains/appointment/model"
	"stylebook/internal/domains/appointment/model/dto"
	"stylebook/internal/domains/appointment/service"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	"stylebook/shared/validator"
	"stylebook/transport/http/middleware"
	"stylebook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Appointment
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Appointment, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/appointments", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)
		routerGroup.Use(handler.middleware.RequireRole(constant.RoleOwner, constant.RoleAdmin))

		routerGroup.Get("/", handler.GetAppointments)
		routerGroup.Patch("/{id}/status", handler.UpdateAppointmentStatus)
	})
}

// GetAppointments lists appointments for the admin area.
// @Summary Get all appointments
// @Description Retrieve appointments with optional status and service filtering.
// @Tags Appointment
// @Produce json
// @Param status query string false "Filter by status"
// @Param service_id query string false "Filter by service"
// @Success 200 {object} dto.GetAppointmentsResponse "List of appointments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments [get]
// @Security BearerAuth
func (handler *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAppointments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if serviceID := r.URL.Query().Get(constant.RequestParamServiceID); serviceID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldServiceID,
			Operator: gDto.FilterOperatorEq,
			Value:    serviceID,
			Table:    model.TableName,
		})
	}

	appointments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get appointments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, appointments)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// @Summary Update appointment status
// @Description Set the status of an appointment to PENDING, CONFIRMED, COMPLETED or CANCELLED.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message "Appointment status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAppointmentStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAppointmentStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update appointment status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Appointment status updated by user " + user)

	response.WithMessage(w, http.StatusOK, "Appointment status updated successfully")
}
