package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookinghub/internal/domain"
	"bookinghub/internal/monitoring"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	txRepo         domain.TransactionRepository
	gateway        domain.PaymentGateway
	notifier       domain.BookingNotifier
	contextTimeout time.Duration
}

func NewBookingService(bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	txRepo domain.TransactionRepository,
	gateway domain.PaymentGateway,
	notifier domain.BookingNotifier,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		txRepo:         txRepo,
		gateway:        gateway,
		notifier:       notifier,
		contextTimeout: timeout,
	}
}

// newBookingReference returns a short human-quotable reference like BK-3F2A9C01.
func newBookingReference() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(hex[:8])
}

// requireUserRole ensures the caller is a regular user. Facilitators manage
// events; they do not hold bookings of their own.
func (s *bookingService) requireUserRole(ctx context.Context, callerID string) error {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get caller: %w", err)
	}
	if caller.Role != domain.RoleUser {
		return domain.ErrForbidden
	}
	return nil
}

// InitiatePayment creates a gateway order for the event. No booking row exists
// yet; the returned reference correlates the later confirmation or webhook.
func (s *bookingService) InitiatePayment(ctx context.Context, eventID, userID, notes string) (string, *domain.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireUserRole(ctx, userID); err != nil {
		return "", nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrNotFound
		}
		return "", nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsActive {
		return "", nil, domain.ErrEventInactive
	}
	if event.CurrentParticipants >= event.MaxParticipants {
		return "", nil, domain.ErrEventFull
	}

	_, err = s.bookingRepo.GetActiveByUserAndEvent(ctx, userID, eventID)
	if err == nil {
		return "", nil, domain.ErrDuplicateBooking
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("check existing booking: %w", err)
	}

	reference := newBookingReference()
	order, err := s.gateway.CreateOrder(ctx, event, reference, userID)
	if err != nil {
		monitoring.TrackPaymentOrderFailed()
		if errors.Is(err, domain.ErrGatewayNotConfigured) {
			return "", nil, domain.ErrGatewayNotConfigured
		}
		return "", nil, fmt.Errorf("create payment order: %w", err)
	}
	monitoring.TrackPaymentOrderCreated()
	return reference, order, nil
}

// Confirm records a paid booking. The repository enforces capacity and the
// one-active-booking rule inside a single transaction.
func (s *bookingService) Confirm(ctx context.Context, eventID, userID, reference, paymentID, notes string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireUserRole(ctx, userID); err != nil {
		return nil, err
	}

	if reference == "" {
		reference = newBookingReference()
	}
	now := time.Now()
	booking := &domain.Booking{
		BookingReference: reference,
		Status:           domain.BookingStatusConfirmed,
		Notes:            notes,
		PaymentStatus:    domain.PaymentStatusCompleted,
		UserID:           userID,
		EventID:          eventID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if paymentID != "" {
		booking.PaymentID = &paymentID
	}

	if err := s.bookingRepo.CreateConfirmed(ctx, booking); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrEventInactive),
			errors.Is(err, domain.ErrEventFull),
			errors.Is(err, domain.ErrDuplicateBooking):
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	monitoring.TrackBookingConfirmed()

	s.notifier.BookingAction(ctx, booking, domain.ActionPaymentCompleted)
	return booking, nil
}

// HandlePaymentWebhook processes a gateway callback. Unknown events, unknown
// references, and redeliveries are all acknowledged without side effects.
func (s *bookingService) HandlePaymentWebhook(ctx context.Context, hook *domain.PaymentWebhook) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if hook.Event != domain.WebhookPaymentCaptured || hook.BookingReference == "" {
		return nil
	}

	booking, err := s.bookingRepo.GetByReference(ctx, hook.BookingReference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Payment landed before any booking row exists; nothing to update.
			return nil
		}
		return fmt.Errorf("get booking: %w", err)
	}

	alreadyConfirmed := booking.Status == domain.BookingStatusConfirmed
	if !alreadyConfirmed {
		if err := s.bookingRepo.ConfirmFromWebhook(ctx, booking.ID, hook.PaymentID); err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}
		booking.Status = domain.BookingStatusConfirmed
		booking.PaymentStatus = domain.PaymentStatusCompleted
		booking.PaymentID = &hook.PaymentID
		monitoring.TrackBookingConfirmed()
	}

	if hook.PaymentID != "" {
		event, err := s.eventRepo.GetByID(ctx, booking.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		now := time.Now()
		tx := &domain.Transaction{
			BookingID:     booking.ID,
			PaymentID:     hook.PaymentID,
			Amount:        event.Price,
			Currency:      event.Currency,
			Status:        "completed",
			PaymentMethod: "razorpay",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.txRepo.CreateIfAbsent(ctx, tx); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
	}

	if !alreadyConfirmed {
		s.notifier.BookingAction(ctx, booking, domain.ActionPaymentCompleted)
	}
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get booking: %w", err)
	}
	if booking.UserID != userID {
		return domain.ErrForbidden
	}
	if booking.Closed() {
		return domain.ErrBookingClosed
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrBookingClosed) {
			return domain.ErrBookingClosed
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	monitoring.TrackBookingCancelled()
	return nil
}

func (s *bookingService) Approve(ctx context.Context, bookingID, facilitatorID string) (*domain.Booking, error) {
	return s.review(ctx, bookingID, facilitatorID, domain.BookingStatusConfirmed, domain.PaymentStatusCompleted, domain.ActionApproved)
}

func (s *bookingService) Reject(ctx context.Context, bookingID, facilitatorID string) (*domain.Booking, error) {
	return s.review(ctx, bookingID, facilitatorID, domain.BookingStatusRejected, domain.PaymentStatusRefunded, domain.ActionRejected)
}

func (s *bookingService) review(ctx context.Context, bookingID, facilitatorID, status, paymentStatus, action string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.UserID != facilitatorID {
		return nil, domain.ErrForbidden
	}
	if booking.Closed() {
		return nil, domain.ErrBookingClosed
	}

	if err := s.bookingRepo.SetStatus(ctx, bookingID, status, paymentStatus); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set booking status: %w", err)
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus
	monitoring.TrackBookingReview(action)

	s.notifier.BookingAction(ctx, booking, action)
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]*domain.BookingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.requireUserRole(ctx, userID); err != nil {
		return nil, err
	}

	details, err := s.bookingRepo.ListDetailsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if details == nil {
		details = []*domain.BookingDetail{}
	}
	return details, nil
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID, facilitatorID string) ([]*domain.EventBookingRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.UserID != facilitatorID {
		return nil, domain.ErrForbidden
	}

	rows, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event bookings: %w", err)
	}
	if rows == nil {
		rows = []*domain.EventBookingRow{}
	}
	return rows, nil
}
