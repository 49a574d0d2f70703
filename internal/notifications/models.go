package notifications

import (
	"context"
	"time"
)

// EventType identifies what happened. Consumers dispatch on it.
type EventType string

const (
	TypeBookingConfirmed EventType = "booking.confirmed"
	TypeBookingCancelled EventType = "booking.cancelled"
	TypePaymentRecorded  EventType = "payment.recorded"
	TypePasswordReset    EventType = "password.reset"
)

// Notification is the message published to the broker after a domain
// state change commits. Publishing is best-effort; the state change is
// never rolled back over a failed notification.
type Notification struct {
	Type       EventType         `json:"type"`
	Recipient  string            `json:"recipient"`
	Name       string            `json:"name"`
	EventTitle string            `json:"event_title,omitempty"`
	BookingID  string            `json:"booking_id,omitempty"`
	Amount     float64           `json:"amount,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Publisher is the interface domain services depend on. A nil Publisher
// means notifications are disabled.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// NewBookingConfirmed builds a notification for a confirmed booking.
func NewBookingConfirmed(recipient, name, eventTitle, bookingID string) *Notification {
	return &Notification{
		Type:       TypeBookingConfirmed,
		Recipient:  recipient,
		Name:       name,
		EventTitle: eventTitle,
		BookingID:  bookingID,
		Timestamp:  time.Now(),
	}
}

// NewBookingCancelled builds a notification for a cancelled booking.
func NewBookingCancelled(recipient, name, eventTitle, bookingID string) *Notification {
	return &Notification{
		Type:       TypeBookingCancelled,
		Recipient:  recipient,
		Name:       name,
		EventTitle: eventTitle,
		BookingID:  bookingID,
		Timestamp:  time.Now(),
	}
}

// NewPaymentRecorded builds a notification for a recorded payment.
func NewPaymentRecorded(recipient, name, eventTitle, bookingID string, amount float64) *Notification {
	return &Notification{
		Type:       TypePaymentRecorded,
		Recipient:  recipient,
		Name:       name,
		EventTitle: eventTitle,
		BookingID:  bookingID,
		Amount:     amount,
		Timestamp:  time.Now(),
	}
}

// NewPasswordReset builds a password reset notification carrying the token.
func NewPasswordReset(recipient, name, token string) *Notification {
	return &Notification{
		Type:      TypePasswordReset,
		Recipient: recipient,
		Name:      name,
		Meta:      map[string]string{"reset_token": token},
		Timestamp: time.Now(),
	}
}
