package conflict_test

import (
	"salon/internal/domains/booking/conflict"
	"salon/internal/domains/booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2025-01-10 "+clock)
	if err != nil {
		panic(err)
	}

	return t
}

func occupied(id string, status model.Status, clock string, minutes int) conflict.Occupancy {
	return conflict.Occupancy{ID: id, Status: status, Start: at(clock), Duration: time.Duration(minutes) * time.Minute}
}

func TestHasConflict(t *testing.T) {
	morning := []conflict.Occupancy{occupied("b-1", model.StatusPending, "09:00", 60)}

	tests := []struct {
		name      string
		start     string
		end       string
		existing  []conflict.Occupancy
		excludeID string
		expected  bool
	}{
		{name: "strict overlap", start: "09:30", end: "10:30", existing: morning, expected: true},
		{name: "candidate inside existing", start: "09:15", end: "09:45", existing: morning, expected: true},
		{name: "candidate covers existing", start: "08:00", end: "11:00", existing: morning, expected: true},
		{name: "same interval", start: "09:00", end: "10:00", existing: morning, expected: true},
		{name: "touching after", start: "10:00", end: "10:30", existing: morning},
		{name: "touching before", start: "08:30", end: "09:00", existing: morning},
		{name: "disjoint", start: "13:00", end: "14:00", existing: morning},
		{name: "no bookings", start: "09:00", end: "10:00"},
		{name: "excluded own booking", start: "09:30", end: "10:30", existing: morning, excludeID: "b-1"},
		{
			name:     "confirmed blocks",
			start:    "09:30",
			end:      "10:00",
			existing: []conflict.Occupancy{occupied("b-2", model.StatusConfirmed, "09:00", 45)},
			expected: true,
		},
		{
			name:  "terminal bookings never block",
			start: "09:00",
			end:   "10:00",
			existing: []conflict.Occupancy{
				occupied("b-3", model.StatusCancelled, "09:00", 60),
				occupied("b-4", model.StatusCompleted, "09:00", 60),
				occupied("b-5", model.StatusNoShow, "09:00", 60),
			},
		},
		{
			name:      "exclusion only skips its own id",
			start:     "09:00",
			end:       "10:00",
			existing:  []conflict.Occupancy{occupied("b-1", model.StatusPending, "09:00", 60), occupied("b-6", model.StatusPending, "09:45", 30)},
			excludeID: "b-1",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, conflict.HasConflict(at(tt.start), at(tt.end), tt.existing, tt.excludeID))
		})
	}
}

func TestOverlapSymmetry(t *testing.T) {
	clocks := []string{"08:00", "08:30", "09:00", "09:15", "09:30", "10:00", "10:30", "11:00"}

	var intervals []conflict.Interval

	for i, start := range clocks {
		for _, end := range clocks[i+1:] {
			intervals = append(intervals, conflict.Interval{Start: at(start), End: at(end)})
		}
	}

	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%v vs %v", a, b)

			ab := conflict.HasConflict(a.Start, a.End, []conflict.Occupancy{{ID: "b", Status: model.StatusPending, Start: b.Start, Duration: b.End.Sub(b.Start)}}, "")
			ba := conflict.HasConflict(b.Start, b.End, []conflict.Occupancy{{ID: "a", Status: model.StatusPending, Start: a.Start, Duration: a.End.Sub(a.Start)}}, "")
			assert.Equal(t, ab, ba)
		}
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []conflict.Occupancy{
		occupied("early", model.StatusConfirmed, "08:00", 30),
		occupied("late", model.StatusPending, "09:00", 30),
	}

	found, ok := conflict.FirstConflict(at("09:15"), at("09:45"), existing, "")

	assert.True(t, ok)
	assert.Equal(t, "late", found.ID)
	assert.Equal(t, at("09:30"), found.End())
}
