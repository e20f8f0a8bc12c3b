package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventCancelledEmailData holds data for the notice sent to attendees when
// a creator cancels an event.
type EventCancelledEmailData struct {
	Email       string
	EventTitle  string
	EventDate   string
	CreatorName string
}

// WelcomeMessageEmailData holds data for the welcome email sent on signup.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendEventCancelledNotice(ctx context.Context, data *EventCancelledEmailData) error
}
