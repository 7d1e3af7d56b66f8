package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

// CompetitionMiddleware resolves the competition a request operates on.
type CompetitionMiddleware struct {
	preferences ports.PreferenceService
	logger      *logrus.Logger
}

func NewCompetitionMiddleware(preferences ports.PreferenceService, logger *logrus.Logger) *CompetitionMiddleware {
	return &CompetitionMiddleware{preferences: preferences, logger: logger}
}

// ResolveCompetition sets the competition id from the X-Competition-ID header, falling back to
// the caller's saved selection and then to 0.
func (m *CompetitionMiddleware) ResolveCompetition() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := strings.TrimSpace(c.Request().Header.Get(helpers.CompetitionHeader)); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id < 0 {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid "+helpers.CompetitionHeader+" header")
				}
				helpers.SetCompetitionID(c, id)
				return next(c)
			}

			var id int64
			if userID, ok := helpers.GetUserIDRaw(c); ok && m.preferences != nil {
				selected, err := m.preferences.SelectedCompetition(c.Request().Context(), userID)
				if err != nil {
					if m.logger != nil {
						m.logger.WithError(err).WithField("user_id", userID).Warn("failed to load selected competition")
					}
				} else {
					id = selected
				}
			}
			helpers.SetCompetitionID(c, id)
			return next(c)
		}
	}
}
