package payments

import (
	"time"

	"github.com/google/uuid"
)

// Payment is an append-only audit row recorded when a charge is confirmed.
// The booking's status remains the authoritative state; payments are never
// updated or deleted.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount        float64   `gorm:"not null;check:amount > 0" json:"amount"`
	Currency      string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Method        string    `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        string    `gorm:"type:varchar(20);check:status IN ('completed', 'failed');default:'completed'" json:"status"`
	TransactionID string    `gorm:"unique;not null" json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultMethod is the processor tag applied when a client reports an
// unrecognized payment method. The charge already succeeded on the
// processor side, so an unknown label is not worth failing over.
const DefaultMethod = "stripe"

var validMethods = map[string]struct{}{
	"credit_card": {},
	"debit_card":  {},
	"upi":         {},
	"cash":        {},
	"stripe":      {},
}

// NormalizeMethod maps a client-supplied payment method onto the fixed
// enumerated set, silently falling back to DefaultMethod.
func NormalizeMethod(method string) string {
	if _, ok := validMethods[method]; ok {
		return method
	}
	return DefaultMethod
}

type CreateIntentRequest struct {
	Amount    int64  `json:"amount" binding:"required"` // minor units
	Currency  string `json:"currency"`
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type ConfirmPaymentRequest struct {
	BookingID     string  `json:"booking_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
}

type PaymentResponse struct {
	ID            string    `json:"payment_id"`
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"payment_method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdminPaymentRecord joins a payment with the paying user's name for the
// admin listing.
type AdminPaymentRecord struct {
	PaymentResponse
	UserName string `json:"user_name"`
}

// ToResponse converts a Payment into the API shape.
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		UserID:        p.UserID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}
