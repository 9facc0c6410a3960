package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a payment record tied to a booking.
// swagger:model Transaction
type Transaction struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionRepository defines the interface for transaction storage.
// CreateIfAbsent is idempotent on (booking_id, payment_id) so webhook
// redelivery cannot record a payment twice.
type TransactionRepository interface {
	CreateIfAbsent(ctx context.Context, tx *Transaction) error
	ListByBookingID(ctx context.Context, bookingID string) ([]*Transaction, error)
}
