package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"eventhub/internal/shared/apperrors"
	"eventhub/internal/shared/constants"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"
)

var (
	ErrLocationRequired    = errors.New("location is required for physical events")
	ErrMeetingLinkRequired = errors.New("meeting link is required for online events")
)

// Service handles event business logic.
type Service interface {
	CreateEvent(ctx context.Context, organizerID string, req *CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, eventID string) (*EventResponse, error)
	ListEvents(ctx context.Context, query *EventListQuery) (*PaginatedEvents, error)
	UpdateEvent(ctx context.Context, eventID, callerID string, isAdmin bool, req *UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, eventID, callerID string, isAdmin bool) error
	GetMyEvents(ctx context.Context, organizerID string) ([]EventResponse, error)
	GetAttendees(ctx context.Context, eventID, callerID string, isAdmin bool) (*AttendeesResponse, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

// NewService creates a new event service. The cache may be nil, in which
// case reads always hit the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
		log:   logger.GetDefault(),
	}
}

func (s *service) CreateEvent(ctx context.Context, organizerID string, req *CreateEventRequest) (*EventResponse, error) {
	orgID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	mode := ModePhysical
	if req.Mode != "" {
		mode = Mode(req.Mode)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid event mode: %s", req.Mode)
	}

	if mode == ModePhysical && req.Location == "" {
		return nil, ErrLocationRequired
	}
	if mode == ModeOnline && req.MeetingLink == "" {
		return nil, ErrMeetingLinkRequired
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	event := &Event{
		OrganizerID: orgID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Mode:        mode,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
		Price:       req.Price,
		Capacity:    capacity,
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateEventCaches(ctx)

	resp := event.ToResponse(0)
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}

	if s.cache != nil {
		var cached EventResponse
		key := constants.BuildEventDetailKey(eventID)
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	occupied, err := s.repo.CountActiveBookings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	resp := event.ToResponse(occupied)

	if s.cache != nil {
		key := constants.BuildEventDetailKey(eventID)
		if err := s.cache.Set(ctx, key, resp, constants.TTL_EVENT_DETAIL); err != nil {
			s.log.WarnContext(ctx, "failed to cache event detail", "event_id", eventID, "error", err.Error())
		}
	}

	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, query *EventListQuery) (*PaginatedEvents, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	if s.cache != nil {
		var cached PaginatedEvents
		key := constants.BuildEventListKey(query.Page, query.Limit, query.Location, query.Date)
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	events, total, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts, err := s.repo.CountActiveBookingsBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = e.ToResponse(counts[e.ID])
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))

	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if s.cache != nil {
		key := constants.BuildEventListKey(query.Page, query.Limit, query.Location, query.Date)
		if err := s.cache.Set(ctx, key, result, constants.TTL_EVENT_LIST); err != nil {
			s.log.WarnContext(ctx, "failed to cache event list", "error", err.Error())
		}
	}

	return result, nil
}

func (s *service) UpdateEvent(ctx context.Context, eventID, callerID string, isAdmin bool, req *UpdateEventRequest) (*EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && event.OrganizerID.String() != callerID {
		return nil, apperrors.ErrForbidden
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Mode != nil {
		mode := Mode(*req.Mode)
		if !mode.IsValid() {
			return nil, fmt.Errorf("invalid event mode: %s", *req.Mode)
		}
		updates["mode"] = mode
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.MeetingLink != nil {
		updates["meeting_link"] = *req.MeetingLink
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) == 0 {
		occupied, err := s.repo.CountActiveBookings(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := event.ToResponse(occupied)
		return &resp, nil
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.invalidateEventCaches(ctx)

	occupied, err := s.repo.CountActiveBookings(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := updated.ToResponse(occupied)
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, eventID, callerID string, isAdmin bool) error {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return apperrors.ErrEventNotFound
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && event.OrganizerID.String() != callerID {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateEventCaches(ctx)
	return nil
}

func (s *service) GetMyEvents(ctx context.Context, organizerID string) ([]EventResponse, error) {
	orgID, err := uuid.Parse(organizerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	events, err := s.repo.GetByOrganizer(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizer events: %w", err)
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts, err := s.repo.CountActiveBookingsBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = e.ToResponse(counts[e.ID])
	}
	return responses, nil
}

func (s *service) GetAttendees(ctx context.Context, eventID, callerID string, isAdmin bool) (*AttendeesResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && event.OrganizerID.String() != callerID {
		return nil, apperrors.ErrForbidden
	}

	attendees, revenue, err := s.repo.GetAttendees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendees: %w", err)
	}

	occupied, err := s.repo.CountActiveBookings(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AttendeesResponse{
		Event:        event.ToResponse(occupied),
		Attendees:    attendees,
		TotalRevenue: revenue,
	}, nil
}

func (s *service) invalidateEventCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENTS_ALL); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate event caches", "error", err.Error())
	}
}
