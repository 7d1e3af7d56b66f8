package email

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/internal/core/ports"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSendContactMessage_WithoutKeyDropsMessage(t *testing.T) {
	svc := NewEmailService(&EmailConfig{FromEmail: "noreply@example.com"}, quietLogger())
	err := svc.SendContactMessage(context.Background(), "team@example.com", &ports.ContactMessage{Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)
}

func TestSendContactMessage_BuildsMessage(t *testing.T) {
	svc := NewEmailService(&EmailConfig{FromEmail: "noreply@example.com", FromName: "Steps"}, quietLogger())
	var sent *mail.SGMailV3
	svc.send = func(m *mail.SGMailV3) (int, error) {
		sent = m
		return 202, nil
	}

	err := svc.SendContactMessage(context.Background(), "team@example.com", &ports.ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "<b>hello</b>",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "Contact form message", sent.Subject)
	assert.Equal(t, "noreply@example.com", sent.From.Address)
	require.NotNil(t, sent.ReplyTo)
	assert.Equal(t, "ada@example.com", sent.ReplyTo.Address)
	require.Len(t, sent.Personalizations, 1)
	assert.Equal(t, "team@example.com", sent.Personalizations[0].To[0].Address)
	require.NotEmpty(t, sent.Content)
	assert.Contains(t, sent.Content[len(sent.Content)-1].Value, "&lt;b&gt;hello&lt;/b&gt;")
}

func TestSendContactMessage_ReportsFailures(t *testing.T) {
	svc := NewEmailService(&EmailConfig{FromEmail: "noreply@example.com"}, quietLogger())
	svc.send = func(*mail.SGMailV3) (int, error) { return 0, errors.New("network down") }
	err := svc.SendContactMessage(context.Background(), "team@example.com", &ports.ContactMessage{Email: "a@example.com", Message: "x"})
	require.Error(t, err)

	svc.send = func(*mail.SGMailV3) (int, error) { return 401, nil }
	err = svc.SendContactMessage(context.Background(), "team@example.com", &ports.ContactMessage{Email: "a@example.com", Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
