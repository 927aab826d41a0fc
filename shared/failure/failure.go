package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of its transport code.
type Kind string

const (
	KindUnknown          Kind = ""
	KindResourceNotFound Kind = "RESOURCE_NOT_FOUND"
	KindInvalidBooking   Kind = "INVALID_BOOKING"
	KindBookingConflict  Kind = "BOOKING_CONFLICT"
	KindInvalidOperation Kind = "INVALID_OPERATION"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindUnavailable      Kind = "UNAVAILABLE"
)

// Failure is an error the client is told about: an HTTP status, a message and, for
// domain outcomes, a Kind.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind,omitempty"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", Kind: KindAccessDenied}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource", Kind: KindAccessDenied}
)

func (e *Failure) Error() string {
	return e.Message
}

// Retryable reports whether the caller may safely retry the request later.
func (e *Failure) Retryable() bool {
	return e.Kind == KindUnavailable
}

func newFailure(code int, kind Kind, msg string) error {
	return &Failure{Code: code, Message: msg, Kind: kind}
}

// BadRequest turns err into a 400 carrying its message. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, KindUnknown, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, KindUnknown, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, KindUnknown, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, KindResourceNotFound, msg)
}

// Conflict reports a booking that collides with another one.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, KindBookingConflict, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, KindAccessDenied, msg)
}

// InvalidBooking reports booking input the client has to correct.
func InvalidBooking(msg string) error {
	return newFailure(http.StatusBadRequest, KindInvalidBooking, msg)
}

// InvalidOperation reports an operation the current state does not allow.
func InvalidOperation(msg string) error {
	return newFailure(http.StatusBadRequest, KindInvalidOperation, msg)
}

// Unavailable reports a dependency that did not answer in time.
func Unavailable(msg string) error {
	return newFailure(http.StatusServiceUnavailable, KindUnavailable, msg)
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}

// GetCode returns the status of a Failure anywhere in err's chain, 500 otherwise.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the failure kind of err, KindUnknown for unexpected errors.
func GetKind(err error) Kind {
	if fail, ok := as(err); ok {
		return fail.Kind
	}

	return KindUnknown
}

// IsExpected reports whether err is a user-facing outcome rather than an internal fault.
func IsExpected(err error) bool {
	code := GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}
