package model

import (
	"salon/shared/constant"
	"salon/shared/model"
	"salon/shared/timezone"
	"slices"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldCustomerID      = "customer_id"
	FieldStaffID         = "staff_id"
	FieldServiceIDs      = "service_ids"
	FieldAppointmentTime = "appointment_time"
	FieldTotalPrice      = "total_price"
	FieldStatus          = "status"
	FieldNotes           = "notes"
)

// SalonResource is the lock and conflict scope shared by bookings with no staff assigned.
const SalonResource = "salon"

// Booking is a reservation of one or more services starting at AppointmentTime.
// Its end is derived from the catalog durations and never stored.
type Booking struct {
	ID              string          `db:"id"`
	CustomerID      string          `db:"customer_id"`
	StaffID         *string         `db:"staff_id"`
	ServiceIDs      pq.StringArray  `db:"service_ids"`
	AppointmentTime time.Time       `db:"appointment_time"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	Status          Status          `db:"status"`
	Notes           string          `db:"notes"`
	model.Metadata
}

// Resource names the staff member whose calendar the booking occupies.
func (b Booking) Resource() string {
	if b.StaffID == nil || *b.StaffID == constant.Empty {
		return SalonResource
	}

	return *b.StaffID
}

func (b Booking) AssignedTo(staffID string) bool {
	return b.StaffID != nil && *b.StaffID == staffID
}

// Day is the calendar date of the appointment in the salon timezone.
func (b Booking) Day() string {
	return timezone.Format(b.AppointmentTime, constant.DayFormat)
}

// SlotKey identifies the (resource, day) bucket serialised by the slot lock.
func SlotKey(resource, day string) string {
	return EntityName + ":" + resource + ":" + day
}

// NormalizeServiceIDs returns the ids sorted with duplicates removed.
func NormalizeServiceIDs(ids []string) pq.StringArray {
	normalized := slices.Clone(ids)
	slices.Sort(normalized)

	return slices.Compact(normalized)
}
