package model

import "time"

// Metadata carries the audit columns shared by every table. The
// timestamp columns are populated by the database, so only the actor
// columns are part of the insert set.
type Metadata struct {
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	CreatedBy  string    `db:"created_by"`
	ModifiedBy string    `db:"modified_by"`
}
