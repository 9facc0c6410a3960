package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookinghub/internal/delivery/http/helpers"
	"bookinghub/internal/delivery/http/middleware"
	"bookinghub/internal/domain"

	"github.com/shopspring/decimal"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	EventType       string          `json:"event_type"`
	StartDatetime   time.Time       `json:"start_datetime"`
	EndDatetime     time.Time       `json:"end_datetime"`
	Location        *string         `json:"location"`
	VirtualLink     *string         `json:"virtual_link"`
	MaxParticipants int             `json:"max_participants"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.EventType) == "" {
		errs = append(errs, "event_type is required")
	}
	if c.StartDatetime.IsZero() {
		errs = append(errs, "start_datetime is required")
	}
	if c.EndDatetime.IsZero() {
		errs = append(errs, "end_datetime is required")
	}
	if c.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be greater than zero")
	}
	if c.Price.IsNegative() {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /events/{eventID}.
// All fields are optional; absent fields are left unchanged.
type UpdateEventRequest struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	EventType       *string          `json:"event_type"`
	StartDatetime   *time.Time       `json:"start_datetime"`
	EndDatetime     *time.Time       `json:"end_datetime"`
	Location        *string          `json:"location"`
	VirtualLink     *string          `json:"virtual_link"`
	MaxParticipants *int             `json:"max_participants"`
	Price           *decimal.Decimal `json:"price"`
	Currency        *string          `json:"currency"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.MaxParticipants != nil && *u.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be greater than zero")
	}
	if u.Price != nil && u.Price.IsNegative() {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

func (u UpdateEventRequest) toUpdate() domain.EventUpdate {
	return domain.EventUpdate{
		Title:           u.Title,
		Description:     u.Description,
		EventType:       u.EventType,
		StartDatetime:   u.StartDatetime,
		EndDatetime:     u.EndDatetime,
		Location:        u.Location,
		VirtualLink:     u.VirtualLink,
		MaxParticipants: u.MaxParticipants,
		Price:           u.Price,
		Currency:        u.Currency,
	}
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  []*domain.EventListing `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// EventSuccessResponse is the success response envelope for single-event operations.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MyEventsSuccessResponse is the success response envelope for GET /facilitator/events (200).
type MyEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeactivateEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeactivateEventResponse struct {
	Status string `json:"status"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List active events
// @Description Returns all active events with their facilitator summaries.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	listings, err := c.Service.ListActive(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, listings)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create a new event owned by the authenticated facilitator. Only facilitators may create events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a facilitator)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := &domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       req.EventType,
		StartDatetime:   req.StartDatetime,
		EndDatetime:     req.EndDatetime,
		Location:        req.Location,
		VirtualLink:     req.VirtualLink,
		MaxParticipants: req.MaxParticipants,
		Price:           req.Price,
		Currency:        req.Currency,
	}
	created, err := c.Service.Create(r.Context(), callerID, event)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only facilitators can create events")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially update an event. Only the owning facilitator may update it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.Update(r.Context(), eventID, callerID, req.toUpdate())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not the event owner")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Deactivate an event
// @Description Soft-delete an event by marking it inactive. Only the owning facilitator may do this.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains {status: deactivated}"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if err := c.Service.Deactivate(r.Context(), eventID, callerID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not the event owner")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeactivateEventResponse{Status: "deactivated"})
}

// ListMyEvents godoc
// @Summary List the facilitator's own events
// @Description Returns all events owned by the authenticated facilitator, active or not.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyEventsSuccessResponse "data contains the event list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a facilitator)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /facilitator/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMine(r.Context(), callerID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only facilitators have an event list")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
