package crmservice

import (
	"context"
	"log/slog"

	"bookinghub/internal/domain"
	"bookinghub/internal/monitoring"
)

// Email templates dispatched per notification action.
const (
	templateBookingConfirmed  = "booking_confirmed"
	templateBookingApproved   = "booking_approved"
	templateBookingRejected   = "booking_rejected"
	templateFacilitatorNotice = "facilitator_notice"
)

// Dispatcher turns booking notifications into emails. Every send is
// best-effort and independent: a failed or unrenderable email is logged and
// the rest still go out.
type Dispatcher struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

func NewDispatcher(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		renderer: renderer,
		logger:   logger,
	}
}

// Dispatch sends the emails for one notification. payment_completed sends a
// confirmation to the user, approved/rejected send the decision to the user,
// and every action notifies the facilitator when an address is known.
func (d *Dispatcher) Dispatch(ctx context.Context, n *domain.BookingNotification) {
	data := emailData(n)

	if n.User != nil && n.User.Email != "" {
		switch n.Action {
		case domain.ActionPaymentCompleted:
			d.send(ctx, templateBookingConfirmed, n.User.Email, data)
		case domain.ActionApproved:
			d.send(ctx, templateBookingApproved, n.User.Email, data)
		case domain.ActionRejected:
			d.send(ctx, templateBookingRejected, n.User.Email, data)
		}
	}

	if n.Facilitator != nil && n.Facilitator.Email != "" {
		facilitatorData := data
		facilitatorData.RecipientName = n.Facilitator.Name
		d.send(ctx, templateFacilitatorNotice, n.Facilitator.Email, facilitatorData)
	}
}

func (d *Dispatcher) send(ctx context.Context, template, to string, data domain.BookingEmailData) {
	subject, html, text, err := d.renderer.Render(template, data)
	if err != nil {
		d.logger.ErrorContext(ctx, "email render failed", "template", template, "to", to, "err", err)
		monitoring.TrackEmail(template, err)
		return
	}
	err = d.mailer.Send(to, subject, html, text)
	monitoring.TrackEmail(template, err)
	if err != nil {
		d.logger.ErrorContext(ctx, "email send failed, logging body instead",
			"template", template, "to", to, "subject", subject, "body", text, "err", err)
	}
}

func emailData(n *domain.BookingNotification) domain.BookingEmailData {
	data := domain.BookingEmailData{
		BookingID:     n.BookingID,
		Action:        n.Action,
		Status:        n.Status,
		PaymentStatus: n.PaymentStatus,
	}
	if n.User != nil {
		data.RecipientName = n.User.Name
		data.UserName = n.User.Name
		data.UserEmail = n.User.Email
	}
	if n.Event != nil {
		data.EventTitle = n.Event.Title
	}
	return data
}
