package timezone

import (
	"fmt"
	"salon/config"
	"salon/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation = Load(config.Get().App.Timezone)

// Load resolves an IANA zone name, falling back to UTC when it is empty or unknown.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")

		return time.UTC
	}

	return loc
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse reads value in the salon zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Day parses a calendar date and returns its midnight.
func Day(value string) (time.Time, error) {
	day, err := Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return day, nil
}

// Appointment combines a calendar date and a clock time into one instant.
func Appointment(date, clock string) (time.Time, error) {
	at, err := Parse(constant.DayClockFormat, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid appointment %q %q: %w", date, clock, err)
	}

	return at, nil
}

// StartOfDay truncates t to midnight in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Clock supplies the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func SystemClock() Clock {
	return Now
}
