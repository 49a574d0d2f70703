package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/notifications"
	"eventhub/internal/shared/apperrors"
	"eventhub/pkg/logger"
)

// cancellationWindow is the minimum lead time before an event starts
// within which a booking can no longer be cancelled.
const cancellationWindow = 24 * time.Hour

// Service handles booking business logic.
type Service interface {
	CreateBooking(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResult, error)
	CancelBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) error
	GetBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) (*Booking, error)
	ListBookings(ctx context.Context, userID string) ([]BookingSummary, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
	log      *logger.Logger
}

// NewService creates a new booking service. The notifier may be nil.
func NewService(repo Repository, notifier notifications.Publisher) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		log:      logger.GetDefault(),
	}
}

// CreateBooking books a seat for the caller. Retries are idempotent: a
// second request for the same event returns the existing booking with
// Created=false instead of failing or double-booking.
func (s *service) CreateBooking(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}

	booking, created, err := s.repo.CreateWithCapacityCheck(ctx, uid, eventID)
	if err != nil {
		return nil, err
	}

	if created {
		s.log.LogBookingCreated(ctx, booking.ID.String(), req.EventID, userID, booking.Status.String())

		if s.notifier != nil && booking.Status == StatusConfirmed {
			if nctx, err := s.repo.GetNotificationContext(ctx, booking.ID); err == nil {
				s.publish(ctx, notifications.NewBookingConfirmed(nctx.Email, nctx.Name(), nctx.EventTitle, booking.ID.String()))
			}
		}
	}

	return &BookingResult{
		BookingID: booking.ID.String(),
		Created:   created,
		Status:    booking.Status,
	}, nil
}

// CancelBooking cancels the caller's booking. Within 24 hours of the
// event start it is refused; once the event has started or passed, the
// window no longer applies.
func (s *service) CancelBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return apperrors.ErrBookingNotFound
	}

	booking, eventDate, err := s.repo.GetByIDWithEventDate(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && booking.UserID.String() != callerID {
		return apperrors.ErrForbidden
	}

	if booking.IsCancelled() {
		return apperrors.ErrAlreadyCancelled
	}

	now := time.Now()
	if cancellationBlocked(eventDate, now) {
		return apperrors.ErrTooCloseToEvent
	}

	if err := s.repo.Cancel(ctx, id, now); err != nil {
		return err
	}

	s.log.LogBookingCancelled(ctx, bookingID, callerID)

	if s.notifier != nil {
		if nctx, err := s.repo.GetNotificationContext(ctx, id); err == nil {
			s.publish(ctx, notifications.NewBookingCancelled(nctx.Email, nctx.Name(), nctx.EventTitle, bookingID))
		}
	}

	return nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) (*Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.ErrBookingNotFound
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID.String() != callerID {
		return nil, apperrors.ErrForbidden
	}

	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, userID string) ([]BookingSummary, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	summaries, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return summaries, nil
}

// cancellationBlocked reports whether a booking may not be cancelled.
// The window only applies while the event is still upcoming: a booking
// for an event that already started or passed can always be cancelled.
func cancellationBlocked(eventDate, now time.Time) bool {
	untilEvent := eventDate.Sub(now)
	return untilEvent > 0 && untilEvent < cancellationWindow
}

func (s *service) publish(ctx context.Context, n *notifications.Notification) {
	if err := s.notifier.Publish(ctx, n); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking notification",
			"type", string(n.Type), "error", err.Error())
	}
}
