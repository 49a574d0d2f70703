package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"eventhub/internal/notifications"
	"eventhub/internal/shared/apperrors"
	"eventhub/pkg/logger"
)

// Service handles payment business logic.
type Service interface {
	CreateIntent(ctx context.Context, userID string, req *CreateIntentRequest) (*CreateIntentResponse, error)
	ConfirmPayment(ctx context.Context, userID string, req *ConfirmPaymentRequest) (*PaymentResponse, error)
	ListMyPayments(ctx context.Context, userID string) ([]PaymentResponse, error)
	ListAllPayments(ctx context.Context) ([]AdminPaymentRecord, error)
}

type service struct {
	repo     Repository
	gateway  Gateway
	notifier notifications.Publisher
	log      *logger.Logger
}

// NewService creates a new payment service. The notifier may be nil.
func NewService(repo Repository, gateway Gateway, notifier notifications.Publisher) Service {
	return &service{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		log:      logger.GetDefault(),
	}
}

// CreateIntent opens a payment intent at the gateway for the caller's
// booking. Nothing is persisted; the booking stays PENDING until the
// client confirms.
func (s *service) CreateIntent(ctx context.Context, userID string, req *CreateIntentRequest) (*CreateIntentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperrors.ErrBookingNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	owner, err := s.repo.GetBookingOwner(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if owner != uid {
		return nil, apperrors.ErrForbidden
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	intent, err := s.gateway.CreateIntent(ctx, &IntentRequest{
		Amount:    req.Amount,
		Currency:  currency,
		UserID:    userID,
		BookingID: req.BookingID,
	})
	if err != nil {
		return nil, err
	}

	return &CreateIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// ConfirmPayment records the charge and confirms the booking in one
// transaction. Retries are safe: a booking that is already confirmed
// returns the existing payment without inserting a duplicate.
func (s *service) ConfirmPayment(ctx context.Context, userID string, req *ConfirmPaymentRequest) (*PaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperrors.ErrBookingNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	method := NormalizeMethod(req.PaymentMethod)

	payment, alreadyConfirmed, err := s.repo.ConfirmPayment(ctx, uid, bookingID, req.Amount, method)
	if err != nil {
		return nil, err
	}

	if alreadyConfirmed {
		if payment == nil {
			// Confirmed free booking with no payment trail.
			return &PaymentResponse{
				BookingID: req.BookingID,
				UserID:    userID,
				Status:    StatusCompleted,
			}, nil
		}
		resp := payment.ToResponse()
		return &resp, nil
	}

	s.log.LogPaymentRecorded(ctx, payment.ID.String(), req.BookingID, userID, req.Amount)

	if s.notifier != nil {
		if nctx, err := s.repo.GetNotificationContext(ctx, bookingID); err == nil {
			n := notifications.NewPaymentRecorded(nctx.Email, nctx.Name(), nctx.EventTitle, req.BookingID, req.Amount)
			if err := s.notifier.Publish(ctx, n); err != nil {
				s.log.WarnContext(ctx, "failed to publish payment notification",
					"booking_id", req.BookingID, "error", err.Error())
			}
		}
	}

	resp := payment.ToResponse()
	return &resp, nil
}

func (s *service) ListMyPayments(ctx context.Context, userID string) ([]PaymentResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	payments, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *service) ListAllPayments(ctx context.Context) ([]AdminPaymentRecord, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return records, nil
}
