package dto

import (
	"strings"
	"stylebook/internal/domains/appointment/model"
	"stylebook/shared"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	gModel "stylebook/shared/model"
	"stylebook/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	ClientName    string `json:"client_name"    validate:"required,min=2,max=40"`
	ClientPhone   string `json:"client_phone"   validate:"required,phone"`
	ServiceID     string `json:"service_id"     validate:"required"`
	AppointmentAt string `json:"appointment_at" validate:"required"`
	Notes         string `json:"notes"          validate:"omitempty,max=500"`
}

// ParseAppointmentAt returns the requested instant truncated to the minute.
// Slot uniqueness is defined at minute precision.
func (c *CreateAppointmentRequest) ParseAppointmentAt() (time.Time, error) {
	at, err := time.Parse(constant.DateFormat, c.AppointmentAt)
	if err != nil {
		return time.Time{}, err
	}

	return at.UTC().Truncate(time.Minute), nil
}

func (c *CreateAppointmentRequest) ToModel(clientID string, appointmentAt time.Time) model.Appointment {
	notes := strings.TrimSpace(c.Notes)

	return model.Appointment{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		ServiceID:     c.ServiceID,
		AppointmentAt: appointmentAt,
		Status:        constant.AppointmentStatusPending,
		Notes:         notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ContextGuest,
			ModifiedBy: constant.ContextGuest,
		},
	}
}

// PublicAppointmentResponse is what the booking form gets back on success.
type PublicAppointmentResponse struct {
	ID            string `json:"id"`
	ServiceID     string `json:"service_id"`
	AppointmentAt string `json:"appointment_at"`
	Status        string `json:"status"`
}

func (r *PublicAppointmentResponse) FromModel(model model.Appointment) {
	r.ID = model.ID
	r.ServiceID = model.ServiceID
	r.AppointmentAt = model.AppointmentAt.UTC().Format(constant.DateFormat)
	r.Status = model.Status
}

// OccupiedAppointmentResponse carries only the instant. The booking client
// derives wall-clock slots from it, nothing else is public.
type OccupiedAppointmentResponse struct {
	AppointmentAt string `json:"appointment_at"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `db:"status" json:"status" validate:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}

type AppointmentResponse struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	ServiceID     string `json:"service_id"`
	AppointmentAt string `json:"appointment_at"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(model model.Appointment) {
	r.ID = model.ID
	r.ClientID = model.ClientID
	r.ServiceID = model.ServiceID
	r.AppointmentAt = model.AppointmentAt.UTC().Format(constant.DateFormat)
	r.Status = model.Status
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod)
	}
}

// AppointmentCreatedEvent is published to Kafka after a successful booking.
type AppointmentCreatedEvent struct {
	AppointmentID string `json:"appointment_id"`
	ServiceID     string `json:"service_id"`
	ClientName    string `json:"client_name"`
	ClientPhone   string `json:"client_phone"`
	AppointmentAt string `json:"appointment_at"`
}
