package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookinghub/internal/domain"
	"bookinghub/internal/monitoring"
)

type notificationService struct {
	crmNotifier domain.CRMNotifier
	crmRepo     domain.CRMNotificationRepository
	userRepo    domain.UserRepository
	eventRepo   domain.EventRepository
	logger      *slog.Logger
}

// NewNotificationService returns a BookingNotifier that pushes booking state
// changes to the CRM service and records each attempt. Failures are logged
// and audited but never propagated; a booking must not fail because the CRM
// is down.
func NewNotificationService(crmNotifier domain.CRMNotifier,
	crmRepo domain.CRMNotificationRepository,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	logger *slog.Logger,
) domain.BookingNotifier {
	return &notificationService{
		crmNotifier: crmNotifier,
		crmRepo:     crmRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		logger:      logger,
	}
}

func (s *notificationService) BookingAction(ctx context.Context, booking *domain.Booking, action string) {
	payload, err := s.buildNotification(ctx, booking, action)
	if err != nil {
		s.logger.ErrorContext(ctx, "crm push skipped", "booking_id", booking.ID, "action", action, "err", err)
		return
	}

	result := s.crmNotifier.Notify(ctx, payload)
	monitoring.TrackCRMPush(action, result.OK)

	status := "facilitator_" + action
	if !result.OK {
		status += "_failed"
		s.logger.WarnContext(ctx, "crm push failed",
			"booking_id", booking.ID, "action", action, "status_code", result.StatusCode, "err", result.Err)
	}

	audit := &domain.CRMNotification{
		BookingID: booking.ID,
		Status:    status,
		SentAt:    time.Now(),
		Response:  result.Err,
	}
	if result.OK {
		audit.Response = fmt.Sprintf("status %d", result.StatusCode)
	}
	if err := s.crmRepo.Create(ctx, audit); err != nil {
		s.logger.ErrorContext(ctx, "crm audit write failed", "booking_id", booking.ID, "err", err)
	}
}

func (s *notificationService) buildNotification(ctx context.Context, booking *domain.Booking, action string) (*domain.BookingNotification, error) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	facilitator, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("get facilitator: %w", err)
	}

	return &domain.BookingNotification{
		BookingID:     booking.ID,
		Action:        action,
		User:          user.Summary(),
		Event:         event.Summary(),
		Facilitator:   facilitator.Summary(),
		FacilitatorID: facilitator.ID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	}, nil
}
