package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventhub/internal/shared/apperrors"
)

// Repository handles event persistence.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context, query *EventListQuery) ([]Event, int64, error)
	GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error)
	CountActiveBookings(ctx context.Context, eventID uuid.UUID) (int, error)
	CountActiveBookingsBatch(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error)
	GetAttendees(ctx context.Context, eventID uuid.UUID) ([]AttendeeInfo, float64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrEventNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *repository) GetAll(ctx context.Context, query *EventListQuery) ([]Event, int64, error) {
	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Location != "" {
		db = db.Where("location ILIKE ?", "%"+query.Location+"%")
	}
	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err == nil {
			db = db.Where("date >= ? AND date < ?", day, day.Add(24*time.Hour))
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit

	var events []Event
	err := db.Order("date ASC").
		Limit(query.Limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *repository) GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

// CountActiveBookings counts non-cancelled bookings for an event. Pending
// bookings occupy seats too, so they are included.
func (r *repository) CountActiveBookings(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("bookings").
		Where("event_id = ? AND status <> ?", eventID, "CANCELLED").
		Count(&count).Error
	return int(count), err
}

func (r *repository) CountActiveBookingsBatch(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uuid.UUID
		Count   int
	}
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("event_id, COUNT(*) as count").
		Where("event_id IN ? AND status <> ?", eventIDs, "CANCELLED").
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *repository) GetAttendees(ctx context.Context, eventID uuid.UUID) ([]AttendeeInfo, float64, error) {
	var rows []struct {
		FirstName string
		LastName  string
		Email     string
		CreatedAt time.Time
		Status    string
	}

	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("users.first_name, users.last_name, users.email, bookings.created_at, bookings.status").
		Joins("JOIN users ON users.id = bookings.user_id").
		Where("bookings.event_id = ? AND bookings.status <> ?", eventID, "CANCELLED").
		Order("bookings.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	attendees := make([]AttendeeInfo, 0, len(rows))
	for _, row := range rows {
		attendees = append(attendees, AttendeeInfo{
			Name:        row.FirstName + " " + row.LastName,
			Email:       row.Email,
			BookingDate: row.CreatedAt,
			Status:      row.Status,
		})
	}

	var revenue float64
	err = r.db.WithContext(ctx).
		Table("payments").
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.event_id = ? AND payments.status = ?", eventID, "completed").
		Scan(&revenue).Error
	if err != nil {
		return nil, 0, err
	}

	return attendees, revenue, nil
}
