package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"bookinghub/internal/delivery/http/helpers"
	"bookinghub/internal/delivery/http/middleware"
	"bookinghub/internal/domain"
)

// EventBookingsSuccessResponse is the success response envelope for
// GET /facilitator/events/{eventID}/bookings (200).
type EventBookingsSuccessResponse struct {
	Data  []*domain.EventBookingRow `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type FacilitatorController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewFacilitatorController(logger *slog.Logger, svc domain.BookingService) *FacilitatorController {
	return &FacilitatorController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEventBookings godoc
// @Summary List bookings for an event
// @Description Returns all bookings on one of the facilitator's events, each with the booking user's summary.
// @Tags facilitator
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventBookingsSuccessResponse "data contains the booking rows"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /facilitator/events/{eventID}/bookings [get]
func (c *FacilitatorController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	facilitatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	rows, err := c.Service.ListEventBookings(r.Context(), eventID, facilitatorID)
	if err != nil {
		c.writeReviewError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rows)
}

// ApproveBooking godoc
// @Summary Approve a booking
// @Description Mark a booking on one of the facilitator's events as confirmed with payment completed.
// @Description The CRM is notified of the decision.
// @Tags facilitator
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse "data contains the updated booking"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (booking already closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /facilitator/bookings/{bookingID}/approve [put]
func (c *FacilitatorController) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	facilitatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	bookingID := r.PathValue("bookingID")
	booking, err := c.Service.Approve(r.Context(), bookingID, facilitatorID)
	if err != nil {
		c.writeReviewError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// RejectBooking godoc
// @Summary Reject a booking
// @Description Mark a booking on one of the facilitator's events as rejected with payment refunded.
// @Description The CRM is notified of the decision.
// @Tags facilitator
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse "data contains the updated booking"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (booking already closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /facilitator/bookings/{bookingID}/reject [put]
func (c *FacilitatorController) RejectBooking(w http.ResponseWriter, r *http.Request) {
	facilitatorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	bookingID := r.PathValue("bookingID")
	booking, err := c.Service.Reject(r.Context(), bookingID, facilitatorID)
	if err != nil {
		c.writeReviewError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

func (c *FacilitatorController) writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not the event owner")
	case errors.Is(err, domain.ErrBookingClosed):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "booking is already cancelled or rejected")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
