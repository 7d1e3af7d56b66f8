package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqInvalidText         = "22P02"
)

// MapError wraps err with the failed action and, for constraint violations, an application code.
func MapError(err error, action string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperr.Wrap(apperr.CodeConflict, fmt.Sprintf("failed to %s: already exists", action), err)
		case pqForeignKeyViolation:
			return apperr.Wrap(apperr.CodeNotFound, fmt.Sprintf("failed to %s: referenced record does not exist", action), err)
		case pqCheckViolation, pqInvalidText:
			return apperr.Wrap(apperr.CodeValidationFailed, fmt.Sprintf("failed to %s: %s", action, pqErr.Message), err)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
