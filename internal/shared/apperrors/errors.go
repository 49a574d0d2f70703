// Package apperrors defines the domain error taxonomy shared by the booking
// ledger, the payment recorder, and the HTTP layer that maps them to responses.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrForbidden = errors.New("access denied")

	ErrCapacityExceeded = errors.New("event is sold out")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingCancelled = errors.New("booking has been cancelled")
	ErrTooCloseToEvent  = errors.New("cannot cancel: event starts in less than 24 hours")

	ErrInvalidAmount    = errors.New("valid positive amount required")
	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// HTTPStatus maps a domain error to the status code the API surface returns.
// Unknown errors fall through to 500 so nothing crashes the process.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrBookingCancelled):
		return http.StatusConflict
	case errors.Is(err, ErrTooCloseToEvent),
		errors.Is(err, ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ErrPaymentGateway):
		return http.StatusBadGateway
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable machine-readable code for a domain error. Clients
// are expected to branch on these, not on the human-readable message.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrCapacityExceeded):
		return "CAPACITY_EXCEEDED"
	case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrBookingCancelled):
		return "BOOKING_CANCELLED"
	case errors.Is(err, ErrTooCloseToEvent):
		return "TOO_CLOSE_TO_EVENT"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrPaymentGateway):
		return "PAYMENT_GATEWAY_ERROR"
	case errors.Is(err, ErrStoreUnavailable):
		return "STORE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// Retryable reports whether a client is expected to retry the request.
// Only infrastructure failures qualify; the rest are terminal for the request.
func Retryable(err error) bool {
	return errors.Is(err, ErrPaymentGateway) || errors.Is(err, ErrStoreUnavailable)
}
