package model

import (
	"stylebook/shared/model"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID              = "id"
	FieldName            = "name"
	FieldPrice           = "price"
	FieldDurationMinutes = "duration_minutes"
	FieldDescription     = "description"
	FieldActive          = "active"
)

type Service struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Price           float64 `db:"price"`
	DurationMinutes int     `db:"duration_minutes"`
	Description     string  `db:"description"`
	Active          bool    `db:"active"`
	model.Metadata
}
