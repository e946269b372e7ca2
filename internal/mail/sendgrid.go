package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"printapi/internal/config"
)

// SendGridMailer implements Mailer on top of the SendGrid v3 API.
type SendGridMailer struct {
	apiKey   string
	fromName string
	fromAddr string
}

// NewSendGrid creates a mailer from config. The API key is validated at send
// time, not here, so a misconfigured mailer degrades to send failures rather
// than blocking startup.
func NewSendGrid(cfg config.SendGridConfig) *SendGridMailer {
	return &SendGridMailer{
		apiKey:   cfg.APIKey,
		fromName: cfg.FromName,
		fromAddr: cfg.FromAddress,
	}
}

var _ Mailer = (*SendGridMailer)(nil)

// Send delivers one plain-text email.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}
	return nil
}
