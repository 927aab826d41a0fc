package timezone_test

import (
	"salon/shared/constant"
	"salon/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
	assert.Equal(t, timezone.GetLocation(), timezone.Now().Location())
}

func TestFormatAndParse(t *testing.T) {
	parsed, err := timezone.Parse(constant.DayFormat, "2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", timezone.Format(parsed, constant.DayFormat))
}

func TestAppointment(t *testing.T) {
	at, err := timezone.Appointment("2025-01-10", "09:00")
	require.NoError(t, err)

	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 0, at.Minute())
	assert.Equal(t, time.January, at.Month())
	assert.Equal(t, timezone.GetLocation(), at.Location())

	_, err = timezone.Appointment("2025-01-10", "9am")
	assert.Error(t, err)

	_, err = timezone.Appointment("10/01/2025", "09:00")
	assert.Error(t, err)
}

func TestDayAndStartOfDay(t *testing.T) {
	day, err := timezone.Day("2025-01-10")
	require.NoError(t, err)

	at, err := timezone.Appointment("2025-01-10", "17:45")
	require.NoError(t, err)

	assert.True(t, day.Equal(timezone.StartOfDay(at)))

	_, err = timezone.Day("2025-13-40")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	assert.Equal(t, time.UTC, timezone.Load(""))
	assert.Equal(t, time.UTC, timezone.Load("Mars/Olympus_Mons"))
	assert.Equal(t, "Asia/Jakarta", timezone.Load("Asia/Jakarta").String())
}
