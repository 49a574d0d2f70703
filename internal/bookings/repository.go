package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub/internal/events"
	"eventhub/internal/shared/apperrors"
)

// Repository handles booking persistence. Creation runs inside a single
// transaction that serializes on the event row, so a sold-out event can
// never oversell no matter how many requests race.
type Repository interface {
	CreateWithCapacityCheck(ctx context.Context, userID, eventID uuid.UUID) (*Booking, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithEventDate(ctx context.Context, id uuid.UUID) (*Booking, time.Time, error)
	Cancel(ctx context.Context, id uuid.UUID, at time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingSummary, error)
	GetNotificationContext(ctx context.Context, id uuid.UUID) (*NotificationContext, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new booking repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// lockedEvent carries the fields the capacity check needs from the
// event row held under FOR UPDATE.
type lockedEvent struct {
	ID       uuid.UUID
	Price    float64
	Capacity int
}

// CreateWithCapacityCheck books one seat atomically. The event row is
// locked FOR UPDATE for the duration of the transaction, which serializes
// concurrent attempts on the same event: each one sees the occupancy left
// by the previous, so the count check cannot race.
//
// If the user already holds a non-cancelled booking for the event, that
// booking is returned with created=false instead of an error.
func (r *repository) CreateWithCapacityCheck(ctx context.Context, userID, eventID uuid.UUID) (*Booking, bool, error) {
	var booking *Booking
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event lockedEvent
		err := tx.Table("events").
			Select("id, price, capacity").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", eventID).
			Take(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrEventNotFound
			}
			return err
		}

		var existing Booking
		err = tx.Where("user_id = ? AND event_id = ? AND status <> ?", userID, eventID, StatusCancelled).
			First(&existing).Error
		if err == nil {
			booking = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var occupied int64
		err = tx.Model(&Booking{}).
			Where("event_id = ? AND status <> ?", eventID, StatusCancelled).
			Count(&occupied).Error
		if err != nil {
			return err
		}

		if occupied >= int64(event.Capacity) {
			return apperrors.ErrCapacityExceeded
		}

		status := StatusPending
		if event.Price == 0 {
			// Nothing to pay for, so the seat is final immediately.
			status = StatusConfirmed
		}

		newBooking := Booking{
			ID:      uuid.New(),
			UserID:  userID,
			EventID: eventID,
			Status:  status,
		}
		if err := tx.Create(&newBooking).Error; err != nil {
			return err
		}

		booking = &newBooking
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return booking, created, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// GetByIDWithEventDate fetches a booking along with its event's start
// time, which the cancellation window check needs.
func (r *repository) GetByIDWithEventDate(ctx context.Context, id uuid.UUID) (*Booking, time.Time, error) {
	var row struct {
		Booking
		EventDate time.Time
	}

	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, events.date AS event_date").
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, apperrors.ErrBookingNotFound
		}
		return nil, time.Time{}, err
	}

	return &row.Booking, row.EventDate, nil
}

// Cancel marks the booking cancelled. The row is kept for audit; the
// partial unique index ignores cancelled rows, so the user may rebook.
func (r *repository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status <> ?", id, StatusCancelled).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": at,
			"updated_at":   at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlreadyCancelled
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingSummary, error) {
	var rows []struct {
		BookingID  uuid.UUID
		Status     Status
		CreatedAt  time.Time
		EventID    uuid.UUID
		EventTitle string
		EventDate  time.Time
		EventMode  string
		EventPrice float64
	}

	err := r.db.WithContext(ctx).
		Table("bookings").
		Select(`bookings.id AS booking_id, bookings.status, bookings.created_at,
			events.id AS event_id, events.title AS event_title, events.date AS event_date,
			events.mode AS event_mode, events.price AS event_price`).
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.user_id = ?", userID).
		Order("bookings.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]BookingSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, BookingSummary{
			BookingID: row.BookingID.String(),
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			Event: events.Summary{
				ID:    row.EventID.String(),
				Title: row.EventTitle,
				Date:  row.EventDate,
				Mode:  events.Mode(row.EventMode),
				Price: row.EventPrice,
			},
		})
	}
	return summaries, nil
}

// NotificationContext is what the notification pipeline needs to address
// an email about a booking.
type NotificationContext struct {
	Email      string
	FirstName  string
	LastName   string
	EventTitle string
}

// Name returns the recipient's display name.
func (nc *NotificationContext) Name() string {
	return nc.FirstName + " " + nc.LastName
}

func (r *repository) GetNotificationContext(ctx context.Context, id uuid.UUID) (*NotificationContext, error) {
	var nctx NotificationContext
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("users.email, users.first_name, users.last_name, events.title AS event_title").
		Joins("JOIN users ON users.id = bookings.user_id").
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.id = ?", id).
		Take(&nctx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &nctx, nil
}
