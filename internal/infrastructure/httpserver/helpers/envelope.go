package helpers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/apperr"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
)

// StatusFor maps an envelope error code to an HTTP status.
func StatusFor(code string) int {
	switch code {
	case apperr.CodeValidationFailed, apperr.CodeNoCompetitionSelected:
		return http.StatusBadRequest
	case apperr.CodeNotFound, apperr.CodeNoData:
		return http.StatusNotFound
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondQuery writes a read envelope. The body is the envelope in every case.
func RespondQuery[T any](c echo.Context, q result.Query[T]) error {
	if !q.Success {
		return c.JSON(StatusFor(q.Code), q)
	}
	return c.JSON(http.StatusOK, q)
}

// RespondMutation writes a write envelope with okStatus on success.
func RespondMutation[T any](c echo.Context, okStatus int, m result.Mutation[T]) error {
	if !m.Success {
		return c.JSON(StatusFor(m.Code), m)
	}
	return c.JSON(okStatus, m)
}
