package ports

import (
	"context"

	"github.com/avatarctic/step-challenge/internal/core/domain/result"
)

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// EmailService defines email delivery operations
type EmailService interface {
	SendContactMessage(ctx context.Context, to string, msg *ContactMessage) error
}

// ContactService validates and forwards contact form messages.
type ContactService interface {
	Send(ctx context.Context, msg *ContactMessage) result.Mutation[struct{}]
}
