package entities

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation              ErrorKind = "VALIDATION_ERROR"
	KindVehicleAlreadyCheckedIn ErrorKind = "VEHICLE_ALREADY_CHECKED_IN"
	KindTicketNotFound          ErrorKind = "TICKET_NOT_FOUND"
	KindTicketAlreadyCompleted  ErrorKind = "TICKET_ALREADY_COMPLETED"
	KindInvalidInterval         ErrorKind = "INVALID_INTERVAL"
)

// Error is an expected lifecycle outcome or a validation failure.
// Two errors are equal for errors.Is when their kinds match.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidPlate            = &Error{Kind: KindValidation, Message: "plate number is required"}
	ErrPlateTooLong            = &Error{Kind: KindValidation, Message: fmt.Sprintf("plate number must be at most %d characters", MaxPlateLength)}
	ErrInvalidTicketID         = &Error{Kind: KindValidation, Message: "ticket id is required"}
	ErrVehicleAlreadyCheckedIn = &Error{Kind: KindVehicleAlreadyCheckedIn, Message: "vehicle already checked in"}
	ErrTicketNotFound          = &Error{Kind: KindTicketNotFound, Message: "ticket not found"}
	ErrTicketAlreadyCompleted  = &Error{Kind: KindTicketAlreadyCompleted, Message: "ticket already completed"}
	ErrInvalidInterval         = &Error{Kind: KindInvalidInterval, Message: "check-out time must be after check-in time"}
)

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
