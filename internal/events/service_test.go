package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/shared/apperrors"
)

type fakeRepository struct {
	events map[uuid.UUID]*Event
	counts map[uuid.UUID]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		events: make(map[uuid.UUID]*Event),
		counts: make(map[uuid.UUID]int),
	}
}

func (f *fakeRepository) Create(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	if title, ok := updates["title"]; ok {
		event.Title = title.(string)
	}
	if price, ok := updates["price"]; ok {
		event.Price = price.(float64)
	}
	return event, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeRepository) GetAll(ctx context.Context, query *EventListQuery) ([]Event, int64, error) {
	var result []Event
	for _, e := range f.events {
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepository) GetByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	var result []Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (f *fakeRepository) CountActiveBookings(ctx context.Context, eventID uuid.UUID) (int, error) {
	return f.counts[eventID], nil
}

func (f *fakeRepository) CountActiveBookingsBatch(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return f.counts, nil
}

func (f *fakeRepository) GetAttendees(ctx context.Context, eventID uuid.UUID) ([]AttendeeInfo, float64, error) {
	return nil, 0, nil
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	organizerID := uuid.NewString()

	base := func() *CreateEventRequest {
		return &CreateEventRequest{
			Title:    "Tech Conference",
			Date:     time.Now().Add(30 * 24 * time.Hour),
			Mode:     "physical",
			Location: "Berlin",
			Price:    100,
			Capacity: 250,
		}
	}

	t.Run("creates with explicit capacity", func(t *testing.T) {
		svc := NewService(newFakeRepository(), nil)
		resp, err := svc.CreateEvent(ctx, organizerID, base())
		require.NoError(t, err)
		assert.Equal(t, 250, resp.Capacity)
		assert.Equal(t, 250, resp.AvailableSeats)
	})

	t.Run("defaults capacity when omitted", func(t *testing.T) {
		svc := NewService(newFakeRepository(), nil)
		req := base()
		req.Capacity = 0

		resp, err := svc.CreateEvent(ctx, organizerID, req)
		require.NoError(t, err)
		assert.Equal(t, DefaultCapacity, resp.Capacity)
	})

	t.Run("physical event requires location", func(t *testing.T) {
		svc := NewService(newFakeRepository(), nil)
		req := base()
		req.Location = ""

		_, err := svc.CreateEvent(ctx, organizerID, req)
		assert.ErrorIs(t, err, ErrLocationRequired)
	})

	t.Run("online event requires meeting link", func(t *testing.T) {
		svc := NewService(newFakeRepository(), nil)
		req := base()
		req.Mode = "online"
		req.Location = ""

		_, err := svc.CreateEvent(ctx, organizerID, req)
		assert.ErrorIs(t, err, ErrMeetingLinkRequired)

		req.MeetingLink = "https://meet.example.com/room"
		resp, err := svc.CreateEvent(ctx, organizerID, req)
		require.NoError(t, err)
		assert.Equal(t, ModeOnline, resp.Mode)
	})

	t.Run("defaults to physical mode", func(t *testing.T) {
		svc := NewService(newFakeRepository(), nil)
		req := base()
		req.Mode = ""

		resp, err := svc.CreateEvent(ctx, organizerID, req)
		require.NoError(t, err)
		assert.Equal(t, ModePhysical, resp.Mode)
	})
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeRepository, Service, *Event) {
		repo := newFakeRepository()
		svc := NewService(repo, nil)
		event := &Event{
			ID:          uuid.New(),
			OrganizerID: uuid.New(),
			Title:       "Original",
			Date:        time.Now().Add(48 * time.Hour),
			Mode:        ModePhysical,
			Location:    "Berlin",
			Price:       50,
			Capacity:    100,
		}
		repo.events[event.ID] = event
		return repo, svc, event
	}

	t.Run("organizer may update own event", func(t *testing.T) {
		_, svc, event := seed(t)
		title := "Updated"

		resp, err := svc.UpdateEvent(ctx, event.ID.String(), event.OrganizerID.String(), false,
			&UpdateEventRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Updated", resp.Title)
	})

	t.Run("other organizer forbidden", func(t *testing.T) {
		_, svc, event := seed(t)
		title := "Hijacked"

		_, err := svc.UpdateEvent(ctx, event.ID.String(), uuid.NewString(), false,
			&UpdateEventRequest{Title: &title})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin may update any event", func(t *testing.T) {
		_, svc, event := seed(t)
		title := "Moderated"

		resp, err := svc.UpdateEvent(ctx, event.ID.String(), uuid.NewString(), true,
			&UpdateEventRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Moderated", resp.Title)
	})
}

func TestGetEventAvailability(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	event := &Event{
		ID:          uuid.New(),
		OrganizerID: uuid.New(),
		Title:       "Popular Show",
		Date:        time.Now().Add(72 * time.Hour),
		Mode:        ModePhysical,
		Location:    "Oslo",
		Capacity:    100,
	}
	repo.events[event.ID] = event
	repo.counts[event.ID] = 37

	resp, err := svc.GetEvent(ctx, event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 63, resp.AvailableSeats)
}
