package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService defines the email delivery interface
type EmailService interface {
	SendEmail(ctx context.Context, notification *EmailNotification) error
}

// SendGridEmailService implements email delivery via SendGrid
type SendGridEmailService struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridEmailService(apiKey, from, fromName string) (EmailService, error) {
	if apiKey == "" || from == "" {
		return nil, fmt.Errorf("incomplete SendGrid configuration")
	}
	if fromName == "" {
		fromName = "Mangala"
	}

	return &SendGridEmailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}, nil
}

func (s *SendGridEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", notification.To)

	message := mail.NewSingleEmail(from, notification.Subject, to, notification.Body, notification.HTML)

	response, err := s.client.Send(message)
	if err != nil {
		log.Printf("Failed to send email to %s: %v", notification.To, err)
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}

	log.Printf("Successfully sent email to %s", notification.To)
	return nil
}
