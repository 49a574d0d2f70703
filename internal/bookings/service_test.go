package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/shared/apperrors"
)

// fakeRepository is an in-memory Repository. A single mutex stands in for
// the row lock the real implementation takes, giving the same
// serialization guarantee.
type fakeRepository struct {
	mu       sync.Mutex
	events   map[uuid.UUID]fakeEvent
	bookings map[uuid.UUID]*Booking
}

type fakeEvent struct {
	date     time.Time
	price    float64
	capacity int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		events:   make(map[uuid.UUID]fakeEvent),
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (f *fakeRepository) addEvent(date time.Time, price float64, capacity int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.events[id] = fakeEvent{date: date, price: price, capacity: capacity}
	return id
}

func (f *fakeRepository) CreateWithCapacityCheck(ctx context.Context, userID, eventID uuid.UUID) (*Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[eventID]
	if !ok {
		return nil, false, apperrors.ErrEventNotFound
	}

	occupied := 0
	for _, b := range f.bookings {
		if b.EventID == eventID && b.Status.IsActive() {
			if b.UserID == userID {
				return b, false, nil
			}
			occupied++
		}
	}

	if occupied >= event.capacity {
		return nil, false, apperrors.ErrCapacityExceeded
	}

	status := StatusPending
	if event.price == 0 {
		status = StatusConfirmed
	}

	booking := &Booking{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	f.bookings[booking.ID] = booking
	return booking, true, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.ErrBookingNotFound
	}
	return booking, nil
}

func (f *fakeRepository) GetByIDWithEventDate(ctx context.Context, id uuid.UUID) (*Booking, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, time.Time{}, apperrors.ErrBookingNotFound
	}
	return booking, f.events[booking.EventID].date, nil
}

func (f *fakeRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok || booking.Status == StatusCancelled {
		return apperrors.ErrAlreadyCancelled
	}
	booking.Status = StatusCancelled
	booking.CancelledAt = &at
	return nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var summaries []BookingSummary
	for _, b := range f.bookings {
		if b.UserID == userID {
			summaries = append(summaries, BookingSummary{
				BookingID: b.ID.String(),
				Status:    b.Status,
				CreatedAt: b.CreatedAt,
			})
		}
	}
	return summaries, nil
}

func (f *fakeRepository) GetNotificationContext(ctx context.Context, id uuid.UUID) (*NotificationContext, error) {
	return &NotificationContext{Email: "user@example.com", FirstName: "Test", LastName: "User"}, nil
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("paid event starts pending", func(t *testing.T) {
		repo := newFakeRepository()
		eventID := repo.addEvent(time.Now().Add(72*time.Hour), 50, 10)
		svc := NewService(repo, nil)

		result, err := svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, StatusPending, result.Status)
	})

	t.Run("free event confirmed immediately", func(t *testing.T) {
		repo := newFakeRepository()
		eventID := repo.addEvent(time.Now().Add(72*time.Hour), 0, 10)
		svc := NewService(repo, nil)

		result, err := svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, StatusConfirmed, result.Status)
	})

	t.Run("retry returns existing booking", func(t *testing.T) {
		repo := newFakeRepository()
		eventID := repo.addEvent(time.Now().Add(72*time.Hour), 50, 10)
		svc := NewService(repo, nil)
		userID := uuid.NewString()

		first, err := svc.CreateBooking(ctx, userID, &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		require.True(t, first.Created)

		second, err := svc.CreateBooking(ctx, userID, &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.BookingID, second.BookingID)
	})

	t.Run("sold out event rejected", func(t *testing.T) {
		repo := newFakeRepository()
		eventID := repo.addEvent(time.Now().Add(72*time.Hour), 50, 1)
		svc := NewService(repo, nil)

		_, err := svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)

		_, err = svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: eventID.String()})
		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	})

	t.Run("unknown event rejected", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, nil)

		_, err := svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: uuid.NewString()})
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestCreateBookingConcurrent(t *testing.T) {
	// N users race for a single seat. Exactly one booking must win.
	repo := newFakeRepository()
	eventID := repo.addEvent(time.Now().Add(72*time.Hour), 20, 1)
	svc := NewService(repo, nil)

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	soldOut := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.CreateBooking(context.Background(), uuid.NewString(),
				&CreateBookingRequest{EventID: eventID.String()})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result.Created:
				succeeded++
			case err != nil && err == apperrors.ErrCapacityExceeded:
				soldOut++
			default:
				t.Errorf("unexpected outcome: result=%v err=%v", result, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one booking should win the last seat")
	assert.Equal(t, attempts-1, soldOut)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, eventStart time.Time) (Service, *fakeRepository, string, string) {
		repo := newFakeRepository()
		eventID := repo.addEvent(eventStart, 50, 10)
		svc := NewService(repo, nil)
		userID := uuid.NewString()

		result, err := svc.CreateBooking(ctx, userID, &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		return svc, repo, result.BookingID, userID
	}

	t.Run("allowed well before event", func(t *testing.T) {
		svc, _, bookingID, userID := setup(t, time.Now().Add(25*time.Hour))
		err := svc.CancelBooking(ctx, bookingID, userID, false)
		assert.NoError(t, err)
	})

	t.Run("blocked within 24 hours", func(t *testing.T) {
		svc, _, bookingID, userID := setup(t, time.Now().Add(23*time.Hour))
		err := svc.CancelBooking(ctx, bookingID, userID, false)
		assert.ErrorIs(t, err, apperrors.ErrTooCloseToEvent)
	})

	t.Run("allowed after event has passed", func(t *testing.T) {
		svc, _, bookingID, userID := setup(t, time.Now().Add(-48*time.Hour))
		err := svc.CancelBooking(ctx, bookingID, userID, false)
		assert.NoError(t, err)
	})

	t.Run("already cancelled", func(t *testing.T) {
		svc, _, bookingID, userID := setup(t, time.Now().Add(48*time.Hour))
		require.NoError(t, svc.CancelBooking(ctx, bookingID, userID, false))

		err := svc.CancelBooking(ctx, bookingID, userID, false)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyCancelled)
	})

	t.Run("other user forbidden", func(t *testing.T) {
		svc, _, bookingID, _ := setup(t, time.Now().Add(48*time.Hour))
		err := svc.CancelBooking(ctx, bookingID, uuid.NewString(), false)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin may cancel for others", func(t *testing.T) {
		svc, _, bookingID, _ := setup(t, time.Now().Add(48*time.Hour))
		err := svc.CancelBooking(ctx, bookingID, uuid.NewString(), true)
		assert.NoError(t, err)
	})

	t.Run("cancelled seat can be rebooked", func(t *testing.T) {
		repo := newFakeRepository()
		eventID := repo.addEvent(time.Now().Add(48*time.Hour), 50, 1)
		svc := NewService(repo, nil)
		userID := uuid.NewString()

		first, err := svc.CreateBooking(ctx, userID, &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		require.NoError(t, svc.CancelBooking(ctx, first.BookingID, userID, false))

		second, err := svc.CreateBooking(ctx, uuid.NewString(), &CreateBookingRequest{EventID: eventID.String()})
		require.NoError(t, err)
		assert.True(t, second.Created)
	})
}

func TestCancellationBlocked(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		eventDate time.Time
		blocked   bool
	}{
		{"event in 25 hours", now.Add(25 * time.Hour), false},
		{"event in exactly 24 hours", now.Add(24 * time.Hour), false},
		{"event in 23 hours", now.Add(23 * time.Hour), true},
		{"event in one minute", now.Add(time.Minute), true},
		{"event starting now", now, false},
		{"event already past", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocked, cancellationBlocked(tt.eventDate, now))
		})
	}
}
