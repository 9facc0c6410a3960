package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors for event operations.
var (
	ErrEventInactive = errors.New("event is not active")
	ErrEventFull     = errors.New("event is full")
)

// Event represents a bookable offering owned by a facilitator.
// Start/end ordering is not validated, matching the upstream data.
// swagger:model Event
type Event struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Description         *string         `json:"description"`
	EventType           string          `json:"event_type"`
	StartDatetime       time.Time       `json:"start_datetime"`
	EndDatetime         time.Time       `json:"end_datetime"`
	Location            *string         `json:"location"`
	VirtualLink         *string         `json:"virtual_link"`
	MaxParticipants     int             `json:"max_participants"`
	CurrentParticipants int             `json:"current_participants"`
	Price               decimal.Decimal `json:"price"`
	Currency            string          `json:"currency"`
	IsActive            bool            `json:"is_active"`
	UserID              string          `json:"user_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// EventSummary is the compact event representation embedded in CRM pushes.
type EventSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Summary returns the compact representation of the event.
func (e *Event) Summary() *EventSummary {
	if e == nil {
		return nil
	}
	return &EventSummary{ID: e.ID, Title: e.Title}
}

// PriceMinorUnits converts the event price to an integer count of minor
// currency units (e.g. paise for INR): price x 100, truncated.
func (e *Event) PriceMinorUnits() int64 {
	return e.Price.Mul(decimal.NewFromInt(100)).IntPart()
}

// EventUpdate carries the optional fields of a partial event update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Title           *string
	Description     *string
	EventType       *string
	StartDatetime   *time.Time
	EndDatetime     *time.Time
	Location        *string
	VirtualLink     *string
	MaxParticipants *int
	Price           *decimal.Decimal
	Currency        *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListActive(ctx context.Context) ([]*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Deactivate(ctx context.Context, id string) error
}

// EventService defines the business logic for event management.
type EventService interface {
	ListActive(ctx context.Context) ([]*EventListing, error)
	Create(ctx context.Context, callerID string, event *Event) (*Event, error)
	Update(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	Deactivate(ctx context.Context, eventID, callerID string) error
	ListMine(ctx context.Context, callerID string) ([]*Event, error)
}

// EventListing is an event joined with its facilitator summary, as returned
// by the public event list.
type EventListing struct {
	*Event
	Facilitator *PartySummary `json:"facilitator"`
}
