package domain

import "errors"

// Error kinds. Every error returned by the services unwraps to one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrAuth       = errors.New("unauthorized")
	ErrInternal   = errors.New("internal error")
)

// Error is a rejection with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Validation returns a validation rejection with the given message.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

var (
	ErrSlotUnavailable    = &Error{Kind: ErrConflict, Message: "table is already booked for the requested time"}
	ErrLoginTaken         = &Error{Kind: ErrConflict, Message: "login is already taken"}
	ErrBookingNotFound    = &Error{Kind: ErrNotFound, Message: "booking not found"}
	ErrPaymentNotFound    = &Error{Kind: ErrNotFound, Message: "payment for booking not found"}
	ErrTableNotFound      = &Error{Kind: ErrNotFound, Message: "table not found"}
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Message: "user not found"}
	ErrNotBookingOwner    = &Error{Kind: ErrForbidden, Message: "you can only cancel your own bookings"}
	ErrAdminRequired      = &Error{Kind: ErrForbidden, Message: "admin access required"}
	ErrInvalidCredentials = &Error{Kind: ErrAuth, Message: "invalid login or password"}
)
