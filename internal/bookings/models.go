package bookings

import (
	"time"

	"eventhub/internal/events"

	"github.com/google/uuid"
)

// Booking reserves one seat at one event for one user. At most one
// non-cancelled booking may exist per (user, event) pair; the repository and
// a partial unique index both enforce it.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	Status      Status     `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED');default:'PENDING'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled reports whether the booking has been cancelled.
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Cancel marks the booking cancelled in memory. Persisting is the
// repository's job.
func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

// CreateBookingRequest represents the booking creation payload.
type CreateBookingRequest struct {
	EventID string `json:"event_id" binding:"required,uuid"`
}

// BookingResult is returned by booking creation. Created is false when the
// caller already held a non-cancelled booking for the event, in which case
// BookingID names the existing one so the client can proceed to payment.
type BookingResult struct {
	BookingID string `json:"booking_id"`
	Created   bool   `json:"created"`
	Status    Status `json:"status"`
}

// BookingSummary is a booking joined with its event, as shown in the
// caller's booking list.
type BookingSummary struct {
	BookingID string         `json:"booking_id"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Event     events.Summary `json:"event"`
}
