package model

import (
	"stylebook/shared/model"
)

const (
	TableName  = "clients"
	EntityName = "client"

	FieldID              = "id"
	FieldName            = "name"
	FieldPhone           = "phone"
	FieldPhoneNormalized = "phone_normalized"
)

// Client is a walk-in customer record, keyed by normalized phone so repeat
// bookings from the same person collapse into one row.
type Client struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Phone           string `db:"phone"`
	PhoneNormalized string `db:"phone_normalized"`
	model.Metadata
}
