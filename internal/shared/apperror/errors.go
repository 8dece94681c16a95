package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can tell business rejections apart.
type Kind string

const (
	KindCapacityExceeded       Kind = "CAPACITY_EXCEEDED"
	KindDepartureClosed        Kind = "DEPARTURE_CLOSED"
	KindInvalidStateTransition Kind = "INVALID_STATE_TRANSITION"
	KindPaymentAlreadyResolved Kind = "PAYMENT_ALREADY_RESOLVED"
	KindGenderMismatch         Kind = "GENDER_MISMATCH"
	KindAlreadyPaired          Kind = "ALREADY_PAIRED"
	KindAlreadyAssigned        Kind = "ALREADY_ASSIGNED"
	KindRoomFull               Kind = "ROOM_FULL"
	KindNotFound               Kind = "NOT_FOUND"
	KindValidation             Kind = "VALIDATION"
	KindPersistenceConflict    Kind = "PERSISTENCE_CONFLICT"
	KindTimeout                Kind = "TIMEOUT"
	KindInternal               Kind = "INTERNAL"
)

// Error is the single error type returned by the core services.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind. A resolved-payment error is also an invalid transition.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return e.Kind == KindPaymentAlreadyResolved && t.Kind == KindInvalidStateTransition
}

// Sentinels for errors.Is checks.
var (
	ErrCapacityExceeded       = &Error{Kind: KindCapacityExceeded}
	ErrDepartureClosed        = &Error{Kind: KindDepartureClosed}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition}
	ErrPaymentAlreadyResolved = &Error{Kind: KindPaymentAlreadyResolved}
	ErrGenderMismatch         = &Error{Kind: KindGenderMismatch}
	ErrAlreadyPaired          = &Error{Kind: KindAlreadyPaired}
	ErrAlreadyAssigned        = &Error{Kind: KindAlreadyAssigned}
	ErrRoomFull               = &Error{Kind: KindRoomFull}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrValidation             = &Error{Kind: KindValidation}
	ErrPersistenceConflict    = &Error{Kind: KindPersistenceConflict}
	ErrTimeout                = &Error{Kind: KindTimeout}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return New(KindInvalidStateTransition, format, args...)
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsRetryable reports whether the operation may be retried automatically.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistenceConflict)
}

// HTTPStatus maps a kind onto the status code the API answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindGenderMismatch:
		return http.StatusUnprocessableEntity
	case KindCapacityExceeded, KindDepartureClosed, KindInvalidStateTransition,
		KindPaymentAlreadyResolved, KindAlreadyPaired, KindAlreadyAssigned,
		KindRoomFull, KindPersistenceConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
