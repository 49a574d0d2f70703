package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the booking still occupies a seat. Pending
// bookings count toward capacity so a half-paid event cannot oversell.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanBeConfirmed reports whether a payment confirmation may transition this
// booking. A confirmed booking is a no-op, never an error, to tolerate
// client retries.
func (s Status) CanBeConfirmed() bool {
	return s == StatusPending
}
