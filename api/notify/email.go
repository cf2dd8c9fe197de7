package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// emailSendTimeout bounds a single outbound email call
const emailSendTimeout = 15 * time.Second

// SendgridMailer implements EmailChannel on top of the sendgrid API
type SendgridMailer struct {
	APIKey      string
	FromName    string
	FromAddress string
}

// Send delivers one email through sendgrid. A timed-out or non-2xx response
// counts as a delivery failure.
func (m SendgridMailer) Send(ctx context.Context, email Email) error {
	if m.APIKey == "" {
		return fmt.Errorf("sendgrid api key not configured")
	}

	from := mail.NewEmail(m.FromName, m.FromAddress)
	to := mail.NewEmail(email.ToName, email.To)
	message := mail.NewSingleEmail(from, email.Subject, to, email.PlainText, email.HTML)

	ctx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}
