package model

import (
	"stylebook/shared/model"
	"time"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID            = "id"
	FieldClientID      = "client_id"
	FieldServiceID     = "service_id"
	FieldAppointmentAt = "appointment_at"
	FieldStatus        = "status"
	FieldNotes         = "notes"
)

type Appointment struct {
	ID            string    `db:"id"`
	ClientID      string    `db:"client_id"`
	ServiceID     string    `db:"service_id"`
	AppointmentAt time.Time `db:"appointment_at"`
	Status        string    `db:"status"`
	Notes         string    `db:"notes"`
	model.Metadata
}
