package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookinghub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListActive(ctx context.Context) ([]*domain.EventListing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// Facilitators repeat across events, fetch each once.
	facilitators := make(map[string]*domain.PartySummary)
	listings := make([]*domain.EventListing, 0, len(events))
	for _, event := range events {
		summary, ok := facilitators[event.UserID]
		if !ok {
			owner, err := s.userRepo.GetByID(ctx, event.UserID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("get facilitator: %w", err)
			}
			summary = owner.Summary()
			facilitators[event.UserID] = summary
		}
		listings = append(listings, &domain.EventListing{Event: event, Facilitator: summary})
	}
	return listings, nil
}

func (s *eventService) Create(ctx context.Context, callerID string, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if caller.Role != domain.RoleFacilitator {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	event.UserID = callerID
	event.CurrentParticipants = 0
	event.IsActive = true
	if event.Currency == "" {
		event.Currency = "INR"
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.UserID != callerID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Deactivate(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.UserID != callerID {
		return domain.ErrForbidden
	}

	if err := s.eventRepo.Deactivate(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deactivate event: %w", err)
	}
	return nil
}

func (s *eventService) ListMine(ctx context.Context, callerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get caller: %w", err)
	}
	if caller.Role != domain.RoleFacilitator {
		return nil, domain.ErrForbidden
	}

	events, err := s.eventRepo.ListByOwnerID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list own events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
