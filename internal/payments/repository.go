package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventhub/internal/bookings"
	"eventhub/internal/shared/apperrors"
)

// Repository handles payment persistence. Confirmation runs in a single
// transaction so the payment row and the booking's state change commit
// or roll back together.
type Repository interface {
	ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, amount float64, method string) (*Payment, bool, error)
	GetBookingOwner(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error)
	GetNotificationContext(ctx context.Context, bookingID uuid.UUID) (*bookings.NotificationContext, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]PaymentResponse, error)
	ListAll(ctx context.Context) ([]AdminPaymentRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ConfirmPayment records a payment and confirms its booking atomically.
// The booking row is locked FOR UPDATE so a concurrent retry observes
// either the pre-state or the fully committed post-state, never half.
//
// Returns alreadyConfirmed=true without inserting anything when the
// booking was confirmed before this call. For paid bookings that means
// the prior payment is returned; for free bookings there is none.
func (r *repository) ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, amount float64, method string) (*Payment, bool, error) {
	var payment *Payment
	alreadyConfirmed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking bookings.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookingNotFound
			}
			return err
		}

		if booking.UserID != userID {
			return apperrors.ErrForbidden
		}

		if booking.Status == bookings.StatusCancelled {
			return apperrors.ErrBookingCancelled
		}

		if booking.Status == bookings.StatusConfirmed {
			alreadyConfirmed = true
			var existing Payment
			err := tx.Where("booking_id = ?", bookingID).
				Order("created_at DESC").
				First(&existing).Error
			if err == nil {
				payment = &existing
				return nil
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Free-event booking: confirmed without a payment row.
				return nil
			}
			return err
		}

		newPayment := Payment{
			ID:            uuid.New(),
			BookingID:     bookingID,
			UserID:        userID,
			Amount:        amount,
			Currency:      "USD",
			Method:        method,
			Status:        StatusCompleted,
			TransactionID: generateTransactionID(),
		}
		if err := tx.Create(&newPayment).Error; err != nil {
			return err
		}

		result := tx.Model(&bookings.Booking{}).
			Where("id = ? AND status = ?", bookingID, bookings.StatusPending).
			Updates(map[string]interface{}{
				"status":     bookings.StatusConfirmed,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("booking %s changed state during confirmation", bookingID)
		}

		payment = &newPayment
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return payment, alreadyConfirmed, nil
}

func (r *repository) GetBookingOwner(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	var booking bookings.Booking
	err := r.db.WithContext(ctx).
		Select("id, user_id, status").
		Where("id = ?", bookingID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperrors.ErrBookingNotFound
		}
		return uuid.Nil, err
	}
	return booking.UserID, nil
}

func (r *repository) GetNotificationContext(ctx context.Context, bookingID uuid.UUID) (*bookings.NotificationContext, error) {
	var nctx bookings.NotificationContext
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("users.email, users.first_name, users.last_name, events.title AS event_title").
		Joins("JOIN users ON users.id = bookings.user_id").
		Joins("JOIN events ON events.id = bookings.event_id").
		Where("bookings.id = ?", bookingID).
		Take(&nctx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &nctx, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]PaymentResponse, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = payments[i].ToResponse()
	}
	return responses, nil
}

func (r *repository) ListAll(ctx context.Context) ([]AdminPaymentRecord, error) {
	var rows []struct {
		Payment
		FirstName string
		LastName  string
	}

	err := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = payments.user_id").
		Order("payments.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]AdminPaymentRecord, len(rows))
	for i, row := range rows {
		records[i] = AdminPaymentRecord{
			PaymentResponse: row.Payment.ToResponse(),
			UserName:        row.FirstName + " " + row.LastName,
		}
	}
	return records, nil
}

// generateTransactionID builds a unique reference for the audit trail.
func generateTransactionID() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	return fmt.Sprintf("TXN_%d_%s", time.Now().Unix(), short)
}
