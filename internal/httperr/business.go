package httperr

import (
	"errors"
	"fmt"
)

// Business error codes. Callers switch on these, never on messages.
const (
	CodeInvalidInput        = "invalid_input"
	CodeInvalidReference    = "invalid_reference"
	CodeSlotAlreadyBooked   = "slot_already_booked"
	CodeInconsistentSlots   = "inconsistent_slots"
	CodeNotFound            = "not_found"
	CodeInvalidState        = "invalid_state"
	CodeConflict            = "conflict"
	CodeTransactionFailure  = "transaction_failure"
	CodeNotificationFailure = "notification_failure"
)

type BusinessError struct {
	Code string
	// Ref names the entity for invalid_reference / not_found ("user", "barber", ...).
	Ref     string
	Message string

	cause error
}

func (e BusinessError) Error() string {
	msg := e.Code
	if e.Ref != "" {
		msg += "(" + e.Ref + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e BusinessError) Unwrap() error {
	return e.cause
}

// Retryable reports whether the caller may safely repeat the operation.
func (e BusinessError) Retryable() bool {
	return e.Code == CodeTransactionFailure
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrInvalidInput(format string, args ...any) error {
	return BusinessError{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalidReference(ref string) error {
	return BusinessError{Code: CodeInvalidReference, Ref: ref}
}

func ErrNotFound(ref string) error {
	return BusinessError{Code: CodeNotFound, Ref: ref}
}

func ErrInvalidState(message string) error {
	return BusinessError{Code: CodeInvalidState, Message: message}
}

func ErrSlotAlreadyBooked() error {
	return BusinessError{Code: CodeSlotAlreadyBooked}
}

func ErrInconsistentSlots(message string) error {
	return BusinessError{Code: CodeInconsistentSlots, Message: message}
}

func ErrTransactionFailure(cause error) error {
	return BusinessError{Code: CodeTransactionFailure, cause: cause}
}

func ErrNotificationFailure(cause error) error {
	return BusinessError{Code: CodeNotificationFailure, cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// RefOf returns the entity reference carried by err, if any.
func RefOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Ref
	}
	return ""
}
