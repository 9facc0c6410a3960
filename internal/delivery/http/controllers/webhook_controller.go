package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"bookinghub/internal/delivery/http/helpers"
	"bookinghub/internal/domain"
)

// razorpayWebhook mirrors the subset of the Razorpay webhook payload the
// booking workflow needs. Gateway payloads carry many more fields, so this is
// decoded without DisallowUnknownFields.
type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string            `json:"id"`
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookResponse is the acknowledgement payload for POST /razorpay/webhook (200).
type WebhookResponse struct {
	Status string `json:"status"`
}

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewWebhookController(logger *slog.Logger, svc domain.BookingService) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
	}
}

// HandleRazorpay godoc
// @Summary Razorpay webhook
// @Description Gateway callback endpoint. Acts on payment.captured events; everything else,
// @Description including events for unknown booking references, is acknowledged without effect.
// @Description Redelivery of the same event is idempotent.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains {status: success}"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed payload)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /razorpay/webhook [post]
func (c *WebhookController) HandleRazorpay(w http.ResponseWriter, r *http.Request) {
	// TODO: verify the X-Razorpay-Signature header against the webhook secret.
	var payload razorpayWebhook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed webhook payload")
		return
	}
	hook := &domain.PaymentWebhook{
		Event:            payload.Event,
		PaymentID:        payload.Payload.Payment.Entity.ID,
		BookingReference: payload.Payload.Payment.Entity.Notes["booking_reference"],
	}
	if err := c.Service.HandlePaymentWebhook(r.Context(), hook); err != nil {
		// Non-2xx makes the gateway redeliver later; processing is idempotent.
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "webhook processing failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, WebhookResponse{Status: "success"})
}
