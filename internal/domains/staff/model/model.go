package model

import (
	"stylebook/shared/model"
	"time"
)

const (
	TableName  = "staff_accounts"
	EntityName = "staff"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

// Staff is a shop employee who can sign in to the admin area. The owner role
// additionally manages other staff accounts.
type Staff struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  string     `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}
