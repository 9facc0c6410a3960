package domain

import (
	"context"
	"time"
)

// Actions carried in CRM notifications, discriminating the payload.
const (
	ActionPaymentCompleted = "payment_completed"
	ActionApproved         = "approved"
	ActionRejected         = "rejected"
)

// BookingNotification is the tagged payload pushed to the CRM service.
type BookingNotification struct {
	BookingID     string        `json:"booking_id"`
	Action        string        `json:"action"`
	User          *PartySummary `json:"user"`
	Event         *EventSummary `json:"event"`
	Facilitator   *PartySummary `json:"facilitator"`
	FacilitatorID string        `json:"facilitator_id"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
}

// CRMPushResult is the explicit outcome of a CRM push. Callers decide what to
// do with a failure; the push itself never panics or aborts the caller.
type CRMPushResult struct {
	OK         bool
	StatusCode int
	Err        string
}

// CRMNotifier pushes booking notifications to the CRM service.
type CRMNotifier interface {
	Notify(ctx context.Context, n *BookingNotification) CRMPushResult
}

// CRMNotification is an audit row recording the outcome of a CRM push.
// swagger:model CRMNotification
type CRMNotification struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
	Response  string    `json:"response"`
}

// CRMNotificationRepository stores CRM push audit rows.
type CRMNotificationRepository interface {
	Create(ctx context.Context, n *CRMNotification) error
	ListByBookingID(ctx context.Context, bookingID string) ([]*CRMNotification, error)
}

// BookingNotifier dispatches a best-effort CRM push for a booking state
// change. Implementations must never fail the caller.
type BookingNotifier interface {
	BookingAction(ctx context.Context, booking *Booking, action string)
}
