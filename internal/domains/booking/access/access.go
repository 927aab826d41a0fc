// Package access answers whether the calling principal may read or modify a booking.
package access

//go:generate go run go.uber.org/mock/mockgen -source=./access.go -destination=../mocks/access_mock.go -package=mocks

import (
	"context"
	"salon/internal/domains/booking/model"
	"salon/shared/constant"
)

type Principal struct {
	UserID string
	Role   string
}

// PrincipalFromContext reads the identity the auth middleware stored on the request context.
func PrincipalFromContext(ctx context.Context) Principal {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Principal{UserID: userID, Role: role}
}

func (p Principal) IsAdmin() bool {
	return p.Role == constant.RoleAdmin || p.Role == constant.RoleSuperAdmin
}

func (p Principal) IsStaff() bool {
	return p.Role == constant.RoleStaff
}

func (p Principal) Anonymous() bool {
	return p.UserID == ""
}

// Gate is the authorization predicate threaded through the scheduler.
type Gate interface {
	CanRead(principal Principal, booking model.Booking) bool
	CanWrite(principal Principal, booking model.Booking) bool
	CanActFor(principal Principal, customerID string) bool
	IsPrivileged(principal Principal) bool
}

type gate struct{}

func NewGate() Gate {
	return gate{}
}

// CanRead mirrors CanWrite: whoever may touch a booking may see it.
func (g gate) CanRead(principal Principal, booking model.Booking) bool {
	return g.CanWrite(principal, booking)
}

// CanWrite lets administrators touch everything, staff touch bookings assigned to them or
// not yet assigned, and customers touch only their own.
func (g gate) CanWrite(principal Principal, booking model.Booking) bool {
	switch {
	case principal.Anonymous():
		return false
	case principal.IsAdmin():
		return true
	case principal.IsStaff():
		return booking.StaffID == nil || booking.AssignedTo(principal.UserID)
	default:
		return booking.CustomerID == principal.UserID
	}
}

// CanActFor reports whether principal may create or list bookings owned by customerID.
func (g gate) CanActFor(principal Principal, customerID string) bool {
	if principal.Anonymous() || customerID == "" {
		return false
	}

	return g.IsPrivileged(principal) || principal.UserID == customerID
}

// IsPrivileged is true for administrators and staff.
func (g gate) IsPrivileged(principal Principal) bool {
	return !principal.Anonymous() && (principal.IsAdmin() || principal.IsStaff())
}
