package model

import "stylebook/shared/model"

const (
	TableName  = "lookbook_styles"
	EntityName = "lookbook"

	FieldID        = "id"
	FieldStyleName = "style_name"
	FieldServiceID = "service_id"
	FieldCaption   = "caption"
	FieldImages    = "images"
	FieldFeatured  = "featured"
)

// Style is one showcased haircut in the shop lookbook, optionally tied to
// the service a guest would book to get it.
type Style struct {
	ID        string   `db:"id"`
	StyleName string   `db:"style_name"`
	ServiceID *string  `db:"service_id"`
	Caption   string   `db:"caption"`
	Images    []string `db:"images"`
	Featured  bool     `db:"featured"`
	model.Metadata
}
