package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentOrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_orders_created_total",
			Help: "Total payment orders created at the gateway",
		},
	)

	paymentOrdersFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_orders_failed_total",
			Help: "Total payment order creations that failed at the gateway",
		},
	)

	bookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Total bookings confirmed after payment",
		},
	)

	bookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Total bookings cancelled by users",
		},
	)

	bookingReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_reviews_total",
			Help: "Total facilitator approve/reject decisions",
		},
		[]string{"decision"},
	)

	crmPushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_pushes_total",
			Help: "Total CRM notification pushes by outcome",
		},
		[]string{"action", "outcome"},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_emails_total",
			Help: "Total emails attempted by the CRM service",
		},
		[]string{"template", "outcome"},
	)
)

func TrackPaymentOrderCreated() {
	paymentOrdersCreated.Inc()
}

func TrackPaymentOrderFailed() {
	paymentOrdersFailed.Inc()
}

func TrackBookingConfirmed() {
	bookingsConfirmed.Inc()
}

func TrackBookingCancelled() {
	bookingsCancelled.Inc()
}

func TrackBookingReview(decision string) {
	bookingReviews.WithLabelValues(decision).Inc()
}

func TrackCRMPush(action string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	crmPushes.WithLabelValues(action, outcome).Inc()
}

func TrackEmail(template string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	emailsSent.WithLabelValues(template, outcome).Inc()
}
