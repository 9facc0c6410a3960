package domain

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// BookingEmailData holds data for the booking lifecycle emails sent by the
// CRM service (confirmation, approval, rejection, facilitator notice).
type BookingEmailData struct {
	RecipientName string
	UserName      string
	UserEmail     string
	EventTitle    string
	BookingID     string
	Action        string
	Status        string
	PaymentStatus string
}
