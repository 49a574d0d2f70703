package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrEventNotFound, http.StatusNotFound},
		{ErrBookingNotFound, http.StatusNotFound},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrCapacityExceeded, http.StatusConflict},
		{ErrAlreadyCancelled, http.StatusConflict},
		{ErrBookingCancelled, http.StatusConflict},
		{ErrTooCloseToEvent, http.StatusBadRequest},
		{ErrInvalidAmount, http.StatusBadRequest},
		{ErrPaymentGateway, http.StatusBadGateway},
		{ErrStoreUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error %v", tt.err)
	}
}

func TestHTTPStatusWrapped(t *testing.T) {
	wrapped := fmt.Errorf("confirm failed: %w", ErrCapacityExceeded)
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, "CAPACITY_EXCEEDED", Code(wrapped))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", Code(ErrEventNotFound))
	assert.Equal(t, "BOOKING_CANCELLED", Code(ErrBookingCancelled))
	assert.Equal(t, "TOO_CLOSE_TO_EVENT", Code(ErrTooCloseToEvent))
	assert.Equal(t, "INTERNAL", Code(fmt.Errorf("boom")))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrPaymentGateway))
	assert.True(t, Retryable(ErrStoreUnavailable))
	assert.False(t, Retryable(ErrCapacityExceeded))
	assert.False(t, Retryable(ErrTooCloseToEvent))
	assert.False(t, Retryable(fmt.Errorf("boom")))
}
