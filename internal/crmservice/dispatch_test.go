package crmservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"bookinghub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      string
	subject string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return f.err
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject: " + name, "<p>" + name + "</p>", "body: " + name, nil
}

func newDispatcher(mailer *fakeMailer, renderer *fakeRenderer) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(mailer, renderer, logger)
}

func TestDispatcher_PaymentCompletedSendsConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(mailer, &fakeRenderer{})

	n := notification("b-1")
	n.Facilitator = &domain.PartySummary{ID: "f-1", Name: "Fred", Email: "fred@example.com"}

	d.Dispatch(context.Background(), n)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, "subject: "+templateBookingConfirmed, mailer.sent[0].subject)
	assert.Equal(t, "fred@example.com", mailer.sent[1].to)
	assert.Equal(t, "subject: "+templateFacilitatorNotice, mailer.sent[1].subject)
}

func TestDispatcher_DecisionEmails(t *testing.T) {
	tests := []struct {
		action       string
		wantTemplate string
	}{
		{action: domain.ActionApproved, wantTemplate: templateBookingApproved},
		{action: domain.ActionRejected, wantTemplate: templateBookingRejected},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			mailer := &fakeMailer{}
			d := newDispatcher(mailer, &fakeRenderer{})

			n := notification("b-1")
			n.Action = tt.action

			d.Dispatch(context.Background(), n)

			require.Len(t, mailer.sent, 1)
			assert.Equal(t, "subject: "+tt.wantTemplate, mailer.sent[0].subject)
		})
	}
}

func TestDispatcher_ExactlyOneSendAttemptEvenOnFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	d := newDispatcher(mailer, &fakeRenderer{})

	d.Dispatch(context.Background(), notification("b-1"))

	assert.Len(t, mailer.sent, 1, "failed send must not be retried")
}

func TestDispatcher_SkipsUsersWithoutEmail(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(mailer, &fakeRenderer{})

	n := notification("b-1")
	n.User.Email = ""

	d.Dispatch(context.Background(), n)

	assert.Empty(t, mailer.sent)
}

func TestDispatcher_RenderFailureSkipsSend(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(mailer, &fakeRenderer{err: fmt.Errorf("template not found")})

	d.Dispatch(context.Background(), notification("b-1"))

	assert.Empty(t, mailer.sent)
}

func TestDispatcher_FacilitatorEmailIndependentOfUserSend(t *testing.T) {
	mailer := &fakeMailer{}
	d := newDispatcher(mailer, &fakeRenderer{})

	n := notification("b-1")
	n.User.Email = ""
	n.Facilitator = &domain.PartySummary{ID: "f-1", Name: "Fred", Email: "fred@example.com"}

	d.Dispatch(context.Background(), n)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "fred@example.com", mailer.sent[0].to)
}
