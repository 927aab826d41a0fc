package model

import (
	"salon/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID              = "id"
	FieldName            = "name"
	FieldPrice           = "price"
	FieldDurationMinutes = "duration_minutes"
	FieldActive          = "active"
)

// Service is a bookable salon treatment.
type Service struct {
	ID              string          `db:"id"               json:"id"`
	Name            string          `db:"name"             json:"name"`
	Description     *string         `db:"description"      json:"description,omitempty"`
	Price           decimal.Decimal `db:"price"            json:"price"`
	DurationMinutes int             `db:"duration_minutes" json:"duration_minutes"`
	Active          bool            `db:"active"           json:"active"`
	model.Metadata
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
