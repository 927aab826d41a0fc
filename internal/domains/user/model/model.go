package model

import (
	"salon/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldLevel      = "level"
	FieldFullName   = "full_name"
	FieldIsVerified = "is_verified"
	FieldLastLogin  = "last_login"
	FieldActive     = "active"
)

const (
	ProfileTableName  = "customer_profiles"
	ProfileEntityName = "customer_profile"

	FieldUserID   = "user_id"
	FieldPhone    = "phone"
	FieldAddress  = "address"
	FieldSkinType = "skin_type"
)

// User is an account of any kind. Level holds the role.
type User struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Password   string     `db:"password"`
	Level      string     `db:"level"`
	FullName   *string    `db:"full_name"`
	IsVerified bool       `db:"is_verified"`
	LastLogin  *time.Time `db:"last_login"`
	Active     bool       `db:"active"`
	model.Metadata
}

// CustomerProfile holds the customer-only fields of a User, joined by UserID.
type CustomerProfile struct {
	UserID   string  `db:"user_id"`
	Phone    *string `db:"phone"`
	Address  *string `db:"address"`
	SkinType *string `db:"skin_type"`
	model.Metadata
}
