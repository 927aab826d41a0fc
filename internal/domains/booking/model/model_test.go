package model_test

import (
	"salon/internal/domains/booking/model"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestResource(t *testing.T) {
	staff := "staff-1"
	empty := ""

	assert.Equal(t, model.SalonResource, model.Booking{}.Resource())
	assert.Equal(t, model.SalonResource, model.Booking{StaffID: &empty}.Resource())
	assert.Equal(t, "staff-1", model.Booking{StaffID: &staff}.Resource())

	assert.True(t, model.Booking{StaffID: &staff}.AssignedTo("staff-1"))
	assert.False(t, model.Booking{}.AssignedTo("staff-1"))
}

func TestNormalizeServiceIDs(t *testing.T) {
	input := []string{"b", "a", "b", "c", "a"}

	assert.Equal(t, pq.StringArray{"a", "b", "c"}, model.NormalizeServiceIDs(input))
	assert.Equal(t, []string{"b", "a", "b", "c", "a"}, input, "input must not be reordered")
	assert.Empty(t, model.NormalizeServiceIDs(nil))
}

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "booking:salon:2025-01-10", model.SlotKey(model.SalonResource, "2025-01-10"))
}
