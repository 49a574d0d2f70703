package events

import (
	"time"

	"github.com/google/uuid"
)

// Mode says how an event is attended. Physical events carry a location,
// online events carry a meeting link.
type Mode string

const (
	ModePhysical Mode = "physical"
	ModeOnline   Mode = "online"
)

func (m Mode) IsValid() bool {
	return m == ModePhysical || m == ModeOnline
}

// DefaultCapacity is used when an organizer does not specify one.
const DefaultCapacity = 100

// Event is the persisted event record. Capacity is fixed at creation; there
// is deliberately no resize path, so occupancy checks can trust it.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Mode        Mode      `json:"mode" gorm:"type:varchar(10);not null;default:'physical'"`
	Location    string    `json:"location" gorm:"size:255"`
	MeetingLink string    `json:"meeting_link" gorm:"size:500"`
	Price       float64   `json:"price" gorm:"not null;check:price >= 0"`
	Capacity    int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// IsFree reports whether bookings for this event skip the payment step.
func (e *Event) IsFree() bool {
	return e.Price == 0
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Date        time.Time `json:"date" binding:"required,futuredate"`
	Mode        string    `json:"mode" binding:"omitempty,oneof=physical online"`
	Location    string    `json:"location" binding:"max=255"`
	MeetingLink string    `json:"meeting_link" binding:"omitempty,url"`
	Price       float64   `json:"price" binding:"min=0"`
	Capacity    int       `json:"capacity" binding:"omitempty,min=1,max=100000"`
	ImageURL    string    `json:"image_url" binding:"omitempty,url"`
}

// UpdateEventRequest intentionally has no capacity field: capacity is
// immutable after creation.
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Date        *time.Time `json:"date"`
	Mode        *string    `json:"mode" binding:"omitempty,oneof=physical online"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	MeetingLink *string    `json:"meeting_link" binding:"omitempty,url"`
	Price       *float64   `json:"price" binding:"omitempty,min=0"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Location string `form:"location"`
	Date     string `form:"date"` // YYYY-MM-DD
}

type EventResponse struct {
	ID             string    `json:"id"`
	OrganizerID    string    `json:"organizer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Mode           Mode      `json:"mode"`
	Location       string    `json:"location,omitempty"`
	MeetingLink    string    `json:"meeting_link,omitempty"`
	Price          float64   `json:"price"`
	Capacity       int       `json:"capacity"`
	AvailableSeats int       `json:"available_seats"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Summary is the slice of an event other modules attach to their own
// responses (booking listings, payment history).
type Summary struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Mode  Mode      `json:"mode"`
	Price float64   `json:"price"`
}

type AttendeeInfo struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

type AttendeesResponse struct {
	Event        EventResponse  `json:"event"`
	Attendees    []AttendeeInfo `json:"attendees"`
	TotalRevenue float64        `json:"total_revenue"`
}

// ToResponse converts an Event, with the occupied seat count supplied by the
// repository, into the API shape.
func (e *Event) ToResponse(occupied int) EventResponse {
	available := e.Capacity - occupied
	if available < 0 {
		available = 0
	}

	return EventResponse{
		ID:             e.ID.String(),
		OrganizerID:    e.OrganizerID.String(),
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Mode:           e.Mode,
		Location:       e.Location,
		MeetingLink:    e.MeetingLink,
		Price:          e.Price,
		Capacity:       e.Capacity,
		AvailableSeats: available,
		ImageURL:       e.ImageURL,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToSummary returns the cross-module slice of this event.
func (e *Event) ToSummary() Summary {
	return Summary{
		ID:    e.ID.String(),
		Title: e.Title,
		Date:  e.Date,
		Mode:  e.Mode,
		Price: e.Price,
	}
}
