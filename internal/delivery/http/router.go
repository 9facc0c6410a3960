package http

import (
	"log/slog"
	"net/http"

	"bookinghub/internal/delivery/http/controllers"
	"bookinghub/internal/delivery/http/helpers"
	"bookinghub/internal/delivery/http/middleware"
	"bookinghub/internal/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	bookingController *controllers.BookingController,
	facilitatorController *controllers.FacilitatorController,
	webhookController *controllers.WebhookController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Health
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok", "service": "booking-api"})
	})

	// Auth
	mux.HandleFunc("POST /register", authController.Register)
	mux.HandleFunc("POST /register_facilitator", authController.RegisterFacilitator)
	mux.HandleFunc("POST /login", authController.Login)
	mux.HandleFunc("GET /me", requireAuth(authController.Me))

	// Events
	mux.HandleFunc("GET /events", requireAuth(eventController.ListEvents))
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Bookings
	mux.HandleFunc("GET /user/bookings", requireAuth(bookingController.ListMyBookings))
	mux.HandleFunc("POST /user/events/{eventID}/book", requireAuth(bookingController.InitiatePayment))
	mux.HandleFunc("POST /user/events/{eventID}/confirm-booking", requireAuth(bookingController.ConfirmBooking))
	mux.HandleFunc("PUT /user/bookings/{bookingID}/cancel", requireAuth(bookingController.CancelBooking))

	// Facilitator
	mux.HandleFunc("GET /facilitator/events", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("GET /facilitator/events/{eventID}/bookings", requireAuth(facilitatorController.ListEventBookings))
	mux.HandleFunc("PUT /facilitator/bookings/{bookingID}/approve", requireAuth(facilitatorController.ApproveBooking))
	mux.HandleFunc("PUT /facilitator/bookings/{bookingID}/reject", requireAuth(facilitatorController.RejectBooking))

	// Payment gateway callback
	mux.HandleFunc("POST /razorpay/webhook", webhookController.HandleRazorpay)

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
