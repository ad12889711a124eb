package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"alumni-connect-backend/internal/logger"
)

// sendClient is the part of the SendGrid client the email service uses.
type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*sendGridResponse, error)
}

type sendGridResponse struct {
	StatusCode int
	Body       string
}

type sendGridClient struct {
	apiKey string
}

func (c sendGridClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*sendGridResponse, error) {
	resp, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, email)
	if err != nil {
		return nil, err
	}
	return &sendGridResponse{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

type emailService struct {
	client    sendClient
	fromEmail string
	fromName  string
	portalURL string
}

func NewEmailService(apiKey, fromEmail, fromName, portalURL string) EmailService {
	return &emailService{
		client:    sendGridClient{apiKey: apiKey},
		fromEmail: fromEmail,
		fromName:  fromName,
		portalURL: strings.TrimRight(portalURL, "/"),
	}
}

func (s *emailService) SendNotificationEmail(ctx context.Context, email, name, subject, message, link string) error {
	logger.ExternalServiceCall("sendgrid", "SendNotificationEmail", "to", email, "subject", subject)

	body := fmt.Sprintf("Hello %s,\n\n%s", displayName(name), message)
	if link != "" && s.portalURL != "" {
		body += fmt.Sprintf("\n\nView it here: %s%s", s.portalURL, link)
	}
	body += fmt.Sprintf("\n\nBest regards,\n%s", s.fromName)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(name, email)
	msg := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, msg)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "SendNotificationEmail", err, "to", email)
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

type logEmailService struct{}

// NewLogEmailService returns an EmailService that only logs, used when email
// delivery is disabled.
func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendNotificationEmail(ctx context.Context, email, name, subject, message, link string) error {
	logger.InfoContext(ctx, "Email delivery disabled, notification not mailed", "to", email, "subject", subject)
	return nil
}
