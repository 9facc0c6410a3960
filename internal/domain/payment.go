package domain

import (
	"context"
	"errors"
)

// ErrGatewayNotConfigured is returned by the payment gateway when credentials
// are missing or still hold placeholder values.
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

// PaymentOrder is the result of creating a gateway order. Amount is in minor
// currency units (price x 100, truncated).
type PaymentOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// PaymentGateway creates payment orders for event bookings. The booking
// reference travels in the order's notes so a later webhook can correlate
// back without a pre-existing booking row.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, event *Event, bookingReference, userID string) (*PaymentOrder, error)
}

// Webhook event name the booking workflow acts on.
const WebhookPaymentCaptured = "payment.captured"

// PaymentWebhook is the parsed gateway callback relevant to bookings.
type PaymentWebhook struct {
	Event            string
	PaymentID        string
	BookingReference string
}
