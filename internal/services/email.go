package services

import (
	"context"
	"fmt"
	"log"

	"gatherly/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// send renders the named template triple and dispatches the result to recipient.
func (s *emailService) send(template, recipient string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(recipient, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	log.Printf("[EMAIL] %s sent to %s", template, recipient)
	return nil
}

func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send("welcome", data.Email, data)
}

func (s *emailService) SendEventCancelledNotice(ctx context.Context, data *domain.EventCancelledEmailData) error {
	if data == nil {
		return fmt.Errorf("event cancelled data is nil")
	}
	return s.send("event_cancelled", data.Email, data)
}
