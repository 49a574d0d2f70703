package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/bookings"
	"eventhub/internal/shared/apperrors"
)

// fakeRepository keeps bookings and payments in memory, serializing
// confirmation under one mutex the way the real one does under FOR UPDATE.
type fakeRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookings.Booking
	payments []Payment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeRepository) addBooking(userID uuid.UUID, status bookings.Status) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.bookings[id] = &bookings.Booking{ID: id, UserID: userID, Status: status}
	return id
}

func (f *fakeRepository) paymentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

func (f *fakeRepository) ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, amount float64, method string) (*Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[bookingID]
	if !ok {
		return nil, false, apperrors.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, false, apperrors.ErrForbidden
	}
	if booking.Status == bookings.StatusCancelled {
		return nil, false, apperrors.ErrBookingCancelled
	}
	if booking.Status == bookings.StatusConfirmed {
		for i := range f.payments {
			if f.payments[i].BookingID == bookingID {
				return &f.payments[i], true, nil
			}
		}
		return nil, true, nil
	}

	payment := Payment{
		ID:            uuid.New(),
		BookingID:     bookingID,
		UserID:        userID,
		Amount:        amount,
		Currency:      "USD",
		Method:        method,
		Status:        StatusCompleted,
		TransactionID: generateTransactionID(),
		CreatedAt:     time.Now(),
	}
	f.payments = append(f.payments, payment)
	booking.Status = bookings.StatusConfirmed
	return &payment, false, nil
}

func (f *fakeRepository) GetBookingOwner(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return uuid.Nil, apperrors.ErrBookingNotFound
	}
	return booking.UserID, nil
}

func (f *fakeRepository) GetNotificationContext(ctx context.Context, bookingID uuid.UUID) (*bookings.NotificationContext, error) {
	return &bookings.NotificationContext{Email: "user@example.com"}, nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]PaymentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var responses []PaymentResponse
	for i := range f.payments {
		if f.payments[i].UserID == userID {
			responses = append(responses, f.payments[i].ToResponse())
		}
	}
	return responses, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]AdminPaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := make([]AdminPaymentRecord, len(f.payments))
	for i := range f.payments {
		records[i] = AdminPaymentRecord{PaymentResponse: f.payments[i].ToResponse()}
	}
	return records, nil
}

// fakeGateway records calls and returns a fixed intent.
type fakeGateway struct {
	lastRequest *IntentRequest
	err         error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	g.lastRequest = req
	if g.err != nil {
		return nil, g.err
	}
	return &Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func TestCreateIntent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("happy path returns client secret", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		gateway := &fakeGateway{}
		svc := NewService(repo, gateway, nil)

		resp, err := svc.CreateIntent(ctx, userID.String(), &CreateIntentRequest{
			Amount:    4999,
			BookingID: bookingID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, "pi_test_secret", resp.ClientSecret)
		assert.Equal(t, int64(4999), gateway.lastRequest.Amount)
		assert.Equal(t, "USD", gateway.lastRequest.Currency)
		assert.Equal(t, bookingID.String(), gateway.lastRequest.BookingID)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		_, err := svc.CreateIntent(ctx, userID.String(), &CreateIntentRequest{
			Amount:    0,
			BookingID: bookingID.String(),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		_, err = svc.CreateIntent(ctx, userID.String(), &CreateIntentRequest{
			Amount:    -100,
			BookingID: bookingID.String(),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("foreign booking forbidden", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(uuid.New(), bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		_, err := svc.CreateIntent(ctx, userID.String(), &CreateIntentRequest{
			Amount:    4999,
			BookingID: bookingID.String(),
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("gateway failure surfaces as gateway error", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		gateway := &fakeGateway{err: apperrors.ErrPaymentGateway}
		svc := NewService(repo, gateway, nil)

		_, err := svc.CreateIntent(ctx, userID.String(), &CreateIntentRequest{
			Amount:    4999,
			BookingID: bookingID.String(),
		})
		assert.ErrorIs(t, err, apperrors.ErrPaymentGateway)
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("records payment and confirms booking", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		resp, err := svc.ConfirmPayment(ctx, userID.String(), &ConfirmPaymentRequest{
			BookingID:     bookingID.String(),
			Amount:        49.99,
			PaymentMethod: "credit_card",
		})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, resp.Status)
		assert.Equal(t, "credit_card", resp.Method)
		assert.NotEmpty(t, resp.TransactionID)
		assert.Equal(t, bookings.StatusConfirmed, repo.bookings[bookingID].Status)
	})

	t.Run("retry does not duplicate payment", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		req := &ConfirmPaymentRequest{BookingID: bookingID.String(), Amount: 49.99}

		first, err := svc.ConfirmPayment(ctx, userID.String(), req)
		require.NoError(t, err)

		second, err := svc.ConfirmPayment(ctx, userID.String(), req)
		require.NoError(t, err)

		assert.Equal(t, first.TransactionID, second.TransactionID)
		assert.Equal(t, 1, repo.paymentCount())
	})

	t.Run("cancelled booking rejected", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusCancelled)
		svc := NewService(repo, &fakeGateway{}, nil)

		_, err := svc.ConfirmPayment(ctx, userID.String(), &ConfirmPaymentRequest{
			BookingID: bookingID.String(),
			Amount:    49.99,
		})
		assert.ErrorIs(t, err, apperrors.ErrBookingCancelled)
		assert.Zero(t, repo.paymentCount())
	})

	t.Run("unknown method falls back to default", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		resp, err := svc.ConfirmPayment(ctx, userID.String(), &ConfirmPaymentRequest{
			BookingID:     bookingID.String(),
			Amount:        49.99,
			PaymentMethod: "carrier_pigeon",
		})
		require.NoError(t, err)
		assert.Equal(t, DefaultMethod, resp.Method)
	})

	t.Run("confirmed free booking is a no-op", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusConfirmed)
		svc := NewService(repo, &fakeGateway{}, nil)

		resp, err := svc.ConfirmPayment(ctx, userID.String(), &ConfirmPaymentRequest{
			BookingID: bookingID.String(),
			Amount:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, resp.Status)
		assert.Zero(t, repo.paymentCount())
	})

	t.Run("invalid amount rejected", func(t *testing.T) {
		repo := newFakeRepository()
		bookingID := repo.addBooking(userID, bookings.StatusPending)
		svc := NewService(repo, &fakeGateway{}, nil)

		_, err := svc.ConfirmPayment(ctx, userID.String(), &ConfirmPaymentRequest{
			BookingID: bookingID.String(),
			Amount:    -5,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"credit_card", "credit_card"},
		{"debit_card", "debit_card"},
		{"upi", "upi"},
		{"cash", "cash"},
		{"stripe", "stripe"},
		{"", "stripe"},
		{"CREDIT_CARD", "stripe"},
		{"bitcoin", "stripe"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMethod(tt.in), "method %q", tt.in)
	}
}
