package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"bookinghub/internal/delivery/http/helpers"
	"bookinghub/internal/delivery/http/middleware"
	"bookinghub/internal/domain"
)

// InitiatePaymentRequest is the optional request body for POST /user/events/{eventID}/book.
type InitiatePaymentRequest struct {
	Notes string `json:"notes"`
}

// InitiatePaymentResponse is the data payload for POST /user/events/{eventID}/book (200).
type InitiatePaymentResponse struct {
	BookingReference string               `json:"booking_reference"`
	Order            *domain.PaymentOrder `json:"order"`
}

// ConfirmBookingRequest is the request body for POST /user/events/{eventID}/confirm-booking.
type ConfirmBookingRequest struct {
	BookingReference string `json:"booking_reference"`
	PaymentID        string `json:"payment_id"`
	Notes            string `json:"notes"`
}

// Validate implements Validator.
func (c ConfirmBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.PaymentID) == "" {
		errs = append(errs, "payment_id is required")
	}
	return errs
}

// InitiatePaymentSuccessResponse is the success response envelope for POST /user/events/{eventID}/book (200).
type InitiatePaymentSuccessResponse struct {
	Data  InitiatePaymentResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// BookingSuccessResponse is the success response envelope for single-booking operations.
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BookingListSuccessResponse is the success response envelope for GET /user/bookings (200).
type BookingListSuccessResponse struct {
	Data  []*domain.BookingDetail `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// CancelBookingResponse is the data payload for PUT /user/bookings/{bookingID}/cancel (200).
type CancelBookingResponse struct {
	Status string `json:"status"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// InitiatePayment godoc
// @Summary Start a booking payment
// @Description Create a payment gateway order for an event seat. Returns the booking reference
// @Description to carry through gateway checkout, and the order details for the client SDK.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body InitiatePaymentRequest false "Optional booking notes"
// @Success 200 {object} controllers.InitiatePaymentSuccessResponse "data contains booking_reference and order"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event inactive or gateway not configured)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a regular user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event full or already booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/events/{eventID}/book [post]
func (c *BookingController) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	// The body is optional here; an absent body means no notes.
	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	reference, order, err := c.Service.InitiatePayment(r.Context(), eventID, userID, req.Notes)
	if err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InitiatePaymentResponse{
		BookingReference: reference,
		Order:            order,
	})
}

// ConfirmBooking godoc
// @Summary Confirm a booking after payment
// @Description Record a confirmed booking once the client completes gateway checkout.
// @Description The seat is taken atomically; capacity and duplicates are re-checked here.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ConfirmBookingRequest true "Payment result"
// @Success 201 {object} controllers.BookingSuccessResponse "data contains the confirmed booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event inactive)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a regular user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event full or already booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/events/{eventID}/confirm-booking [post]
func (c *BookingController) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req ConfirmBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.Confirm(r.Context(), eventID, userID, req.BookingReference, req.PaymentID, req.Notes)
	if err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// ListMyBookings godoc
// @Summary List the user's bookings
// @Description Returns all bookings of the authenticated user, each joined with its event and facilitator.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.BookingListSuccessResponse "data contains the booking list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a regular user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/bookings [get]
func (c *BookingController) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	details, err := c.Service.ListUserBookings(r.Context(), userID)
	if err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Cancel the authenticated user's booking and release its seat.
// @Description Cancelled and rejected bookings cannot be cancelled again.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} helpers.APIResponse "data contains {status: cancelled}"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the booking owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (booking already closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /user/bookings/{bookingID}/cancel [put]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	bookingID := r.PathValue("bookingID")
	if err := c.Service.Cancel(r.Context(), bookingID, userID); err != nil {
		c.writeBookingError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelBookingResponse{Status: "cancelled"})
}

// writeBookingError maps booking workflow sentinels to API error responses.
func (c *BookingController) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrEventInactive):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event is not active")
	case errors.Is(err, domain.ErrEventFull):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event is full")
	case errors.Is(err, domain.ErrDuplicateBooking):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already booked for this event")
	case errors.Is(err, domain.ErrBookingClosed):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "booking is already cancelled or rejected")
	case errors.Is(err, domain.ErrGatewayNotConfigured):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "payment gateway not configured")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
