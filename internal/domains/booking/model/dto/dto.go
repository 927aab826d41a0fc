package dto

import (
	"salon/internal/domains/booking/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookingRequest omits customerId when customers book for themselves.
type CreateBookingRequest struct {
	CustomerID  string   `json:"customerId"  validate:"omitempty,max=64"`
	ServiceIDs  []string `json:"serviceIds"  validate:"required,min=1,dive,required"`
	BookingDate string   `json:"bookingDate" validate:"required,day"`
	StartTime   string   `json:"startTime"   validate:"required,clock"`
	StaffID     *string  `json:"staffId"     validate:"omitempty,max=64"`
	Notes       string   `json:"notes"       validate:"max=1000"`
}

func (c *CreateBookingRequest) AppointmentTime() (time.Time, error) {
	return timezone.Appointment(c.BookingDate, c.StartTime)
}

func (c *CreateBookingRequest) ToModel(customerID string, at time.Time, total decimal.Decimal, user string) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		StaffID:         c.StaffID,
		ServiceIDs:      model.NormalizeServiceIDs(c.ServiceIDs),
		AppointmentTime: at,
		TotalPrice:      total,
		Status:          model.StatusPending,
		Notes:           c.Notes,
		Metadata:        gModel.Created(user, timezone.Now()),
	}
}

// UpdateBookingRequest replaces the schedule and service set. customerId, when sent, must match the booking.
type UpdateBookingRequest struct {
	CustomerID  string   `json:"customerId"  validate:"omitempty,max=64"`
	ServiceIDs  []string `json:"serviceIds"  validate:"required,min=1,dive,required"`
	BookingDate string   `json:"bookingDate" validate:"required,day"`
	StartTime   string   `json:"startTime"   validate:"required,clock"`
	StaffID     *string  `json:"staffId"     validate:"omitempty,max=64"`
	Notes       *string  `json:"notes"       validate:"omitempty,max=1000"`
}

func (u *UpdateBookingRequest) AppointmentTime() (time.Time, error) {
	return timezone.Appointment(u.BookingDate, u.StartTime)
}

type BookingResponse struct {
	ID              string   `json:"id"`
	CustomerID      string   `json:"customerId"`
	StaffID         *string  `json:"staffId,omitempty"`
	ServiceIDs      []string `json:"serviceIds"`
	BookingDate     string   `json:"bookingDate"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	AppointmentTime string   `json:"appointmentTime"`
	DurationMinutes int      `json:"durationMinutes"`
	TotalPrice      string   `json:"totalPrice"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	gDto.Metadata
}

// FromModel fills the response. duration is the sum of the booked service durations.
func (r *BookingResponse) FromModel(booking model.Booking, duration time.Duration) {
	end := booking.AppointmentTime.Add(duration)

	r.ID = booking.ID
	r.CustomerID = booking.CustomerID
	r.StaffID = booking.StaffID
	r.ServiceIDs = booking.ServiceIDs
	r.BookingDate = timezone.Format(booking.AppointmentTime, constant.DayFormat)
	r.StartTime = timezone.Format(booking.AppointmentTime, constant.ClockFormat)
	r.EndTime = timezone.Format(end, constant.ClockFormat)
	r.AppointmentTime = timezone.Format(booking.AppointmentTime, constant.DateFormat)
	r.DurationMinutes = int(duration / time.Minute)
	r.TotalPrice = booking.TotalPrice.StringFixed(2)
	r.Status = booking.Status.String()
	r.Notes = booking.Notes
	r.Metadata = gDto.NewMetadata(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

// FromModels fills the page. durations is keyed by booking id; a missing entry counts as zero.
func (r *GetBookingsResponse) FromModels(models []model.Booking, durations map[string]time.Duration, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, durations[mod.ID])
	}
}
