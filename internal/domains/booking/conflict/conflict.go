// Package conflict decides whether a candidate appointment overlaps the active
// bookings already held by the same resource on the same day.
package conflict

import (
	"salon/internal/domains/booking/model"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether both intervals share at least one instant. Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Occupancy is the slice of a booking needed to place it on the timeline.
type Occupancy struct {
	ID       string
	Status   model.Status
	Start    time.Time
	Duration time.Duration
}

func (o Occupancy) End() time.Time {
	return o.Start.Add(o.Duration)
}

func (o Occupancy) Interval() Interval {
	return Interval{Start: o.Start, End: o.End()}
}

// HasConflict reports whether [start, end) overlaps any active occupancy other than excludeID.
// The caller is responsible for passing only the occupancies of the same day and resource.
func HasConflict(start, end time.Time, existing []Occupancy, excludeID string) bool {
	_, found := FirstConflict(start, end, existing, excludeID)

	return found
}

// FirstConflict returns the first occupancy that blocks [start, end).
func FirstConflict(start, end time.Time, existing []Occupancy, excludeID string) (Occupancy, bool) {
	candidate := Interval{Start: start, End: end}

	for _, occupancy := range existing {
		if !occupancy.Status.IsActive() {
			continue
		}

		if excludeID != "" && occupancy.ID == excludeID {
			continue
		}

		if candidate.Overlaps(occupancy.Interval()) {
			return occupancy, true
		}
	}

	return Occupancy{}, false
}
