package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// EmailService delivers contact form messages through SendGrid.
type EmailService struct {
	config   *EmailConfig
	logger   *logrus.Logger
	send     func(*mail.SGMailV3) (int, error)
	template *template.Template
}

var contactTemplate = template.Must(template.New("contact").Parse(`<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Message}}</p>`))

// NewEmailService creates a new email service instance. Without an API key messages are
// logged and dropped.
func NewEmailService(config *EmailConfig, logger *logrus.Logger) *EmailService {
	s := &EmailService{config: config, logger: logger, template: contactTemplate}
	if config.SendGridAPIKey != "" {
		client := sendgrid.NewSendClient(config.SendGridAPIKey)
		s.send = func(m *mail.SGMailV3) (int, error) {
			resp, err := client.Send(m)
			if err != nil {
				return 0, err
			}
			return resp.StatusCode, nil
		}
	}
	return s
}

// SendContactMessage sends msg to the contact address with the sender as reply-to.
func (e *EmailService) SendContactMessage(ctx context.Context, to string, msg *ports.ContactMessage) error {
	var buf bytes.Buffer
	if err := e.template.Execute(&buf, msg); err != nil {
		return fmt.Errorf("failed to render contact message: %w", err)
	}
	subject := msg.Subject
	if subject == "" {
		subject = "Contact form message"
	}
	return e.sendEmail(to, subject, buf.String(), mail.NewEmail(msg.Name, msg.Email))
}

func (e *EmailService) sendEmail(to, subject, htmlContent string, replyTo *mail.Email) error {
	if e.send == nil {
		e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Warn("SendGrid not configured; email dropped")
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", htmlContent)
	if replyTo != nil {
		message.SetReplyTo(replyTo)
	}

	status, err := e.send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("failed to send email: sendgrid returned status %d", status)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": status,
	}).Info("Email sent successfully")

	return nil
}

var _ ports.EmailService = (*EmailService)(nil)
