package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for booking operations.
var (
	ErrDuplicateBooking = errors.New("already booked for this event")
	ErrBookingClosed    = errors.New("booking is already cancelled or rejected")
)

// Booking lifecycle statuses. Cancelled and rejected are terminal; there is no
// transition back to confirmed.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusRejected  = "rejected"
)

// Payment statuses on a booking.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

// Booking represents a reservation of an event seat by a user.
// swagger:model Booking
type Booking struct {
	ID               string     `json:"id"`
	BookingReference string     `json:"booking_reference"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes"`
	PaymentStatus    string     `json:"payment_status"`
	PaymentID        *string    `json:"payment_id"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	UserID           string     `json:"user_id"`
	EventID          string     `json:"event_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Closed reports whether the booking is in a terminal state.
func (b *Booking) Closed() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusRejected
}

// BookingDetail is a booking joined with its event and facilitator summaries,
// as returned by the user's booking list.
type BookingDetail struct {
	*Booking
	Event       *Event        `json:"event"`
	Facilitator *PartySummary `json:"facilitator"`
}

// EventBookingRow is a booking joined with the booking user's summary, as
// returned by the facilitator's per-event booking list.
type EventBookingRow struct {
	BookingID string        `json:"booking_id"`
	User      *PartySummary `json:"user"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// BookingRepository defines the interface for booking storage.
//
// CreateConfirmed runs the whole confirmation in one transaction: it locks the
// event row, re-checks active/capacity/duplicate, inserts the booking as
// confirmed/completed, increments current_participants, and records the
// payment transaction. It returns ErrNotFound, ErrEventInactive, ErrEventFull,
// or ErrDuplicateBooking without side effects when a check fails.
type BookingRepository interface {
	CreateConfirmed(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetActiveByUserAndEvent(ctx context.Context, userID, eventID string) (*Booking, error)
	ListDetailsByUserID(ctx context.Context, userID string) ([]*BookingDetail, error)
	ListByEventID(ctx context.Context, eventID string) ([]*EventBookingRow, error)
	Cancel(ctx context.Context, bookingID string, cancelledAt time.Time) error
	SetStatus(ctx context.Context, bookingID, status, paymentStatus string) error
	ConfirmFromWebhook(ctx context.Context, bookingID, paymentID string) error
}

// BookingService governs the booking lifecycle from payment initiation to a
// terminal state.
type BookingService interface {
	InitiatePayment(ctx context.Context, eventID, userID, notes string) (reference string, order *PaymentOrder, err error)
	Confirm(ctx context.Context, eventID, userID, reference, paymentID, notes string) (*Booking, error)
	HandlePaymentWebhook(ctx context.Context, hook *PaymentWebhook) error
	Cancel(ctx context.Context, bookingID, userID string) error
	Approve(ctx context.Context, bookingID, facilitatorID string) (*Booking, error)
	Reject(ctx context.Context, bookingID, facilitatorID string) (*Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]*BookingDetail, error)
	ListEventBookings(ctx context.Context, eventID, facilitatorID string) ([]*EventBookingRow, error)
}
