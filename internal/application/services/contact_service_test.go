package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/step-challenge/internal/application/services"
	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/mocks"
)

func TestContactService_Send(t *testing.T) {
	email := &mocks.EmailServiceMock{}
	svc := services.NewContactService(email, "team@example.com", nil)
	ctx := context.Background()

	bad := svc.Send(ctx, &ports.ContactMessage{Email: "not-an-address", Message: "hi"})
	assert.Equal(t, apperr.CodeValidationFailed, bad.Code)

	res := svc.Send(ctx, &ports.ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hello", Message: "Great app"})
	require.True(t, res.Success)
	require.Len(t, email.Sent, 1)
	assert.Equal(t, "Great app", email.Sent[0].Message)
}

func TestContactService_DeliveryFailure(t *testing.T) {
	email := &mocks.EmailServiceMock{SendContactMessageFn: func(ctx context.Context, to string, msg *ports.ContactMessage) error {
		return errors.New("sendgrid: 401")
	}}
	svc := services.NewContactService(email, "team@example.com", nil)

	res := svc.Send(context.Background(), &ports.ContactMessage{Email: "ann@example.com", Message: "hi"})
	assert.False(t, res.Success)
	assert.Equal(t, apperr.CodeBackend, res.Code)
}
