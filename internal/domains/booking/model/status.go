package model

import (
	"fmt"
	"salon/shared/failure"
	"slices"
	"strings"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusNoShow    Status = "NO_SHOW"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
}

// ActiveStatuses are the statuses that occupy a slot.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]

	return ok
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsActive reports whether a booking in s can still conflict, be edited or be deleted.
func (s Status) IsActive() bool {
	return slices.Contains(ActiveStatuses(), s)
}

func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// ValidateTransition returns a *TransitionError when s may not move to target.
// Same-state moves are rejected like any other pair missing from the table.
func (s Status) ValidateTransition(target Status) error {
	if !s.CanTransitionTo(target) {
		return &TransitionError{From: s, To: target}
	}

	return nil
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts any casing and returns an InvalidOperation failure for unknown values.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", failure.InvalidOperation(fmt.Sprintf("unknown booking status %q", value))
	}

	return status, nil
}

// TransitionError carries both ends of a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return failure.InvalidOperation(e.Error())
}
