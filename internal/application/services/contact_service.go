package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/ports"
)

// ContactService forwards contact form messages to the configured address.
type ContactService struct {
	email  ports.EmailService
	to     string
	logger *logrus.Logger
}

func NewContactService(email ports.EmailService, to string, logger *logrus.Logger) *ContactService {
	return &ContactService{email: email, to: to, logger: loggerOrDiscard(logger)}
}

func (s *ContactService) Send(ctx context.Context, msg *ports.ContactMessage) result.Mutation[struct{}] {
	if msg == nil || strings.TrimSpace(msg.Message) == "" {
		return mutationFailure[struct{}](apperr.Validation("message is required"))
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return mutationFailure[struct{}](apperr.Validation("a valid reply address is required"))
	}
	if s.to == "" {
		return mutationFailure[struct{}](apperr.New(apperr.CodeInternal, "contact address is not configured"))
	}
	if err := s.email.SendContactMessage(ctx, s.to, msg); err != nil {
		s.logger.WithError(err).Error("failed to send contact message")
		return mutationFailure[struct{}](apperr.Wrap(apperr.CodeBackend, "failed to send message", err))
	}
	return result.Mutation[struct{}]{Success: true}
}
