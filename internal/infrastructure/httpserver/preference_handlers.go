package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

type selectedCompetition struct {
	CompetitionID int64 `json:"competitionId"`
}

type inviteKeyRequest struct {
	InviteKey string `json:"inviteKey"`
}

// getSelectedCompetition reports the competition resolved for this request.
func (s *Server) getSelectedCompetition(c echo.Context) error {
	return helpers.RespondQuery(c, result.OK(selectedCompetition{CompetitionID: helpers.GetCompetitionIDFromContext(c)}))
}

func (s *Server) selectCompetition(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req selectedCompetition
	if err := c.Bind(&req); err != nil || req.CompetitionID < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.preferenceSvc.SelectCompetition(c.Request().Context(), userID, req.CompetitionID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save selected competition")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save selection")
	}
	return helpers.RespondMutation(c, http.StatusOK, result.Mutation[selectedCompetition]{Success: true, Data: req})
}

func (s *Server) setInviteKey(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req inviteKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.preferenceSvc.SetInviteKey(c.Request().Context(), userID, req.InviteKey); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to save invite key")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save invite key")
	}
	return helpers.RespondMutation(c, http.StatusOK, result.Mutation[struct{}]{Success: true})
}
