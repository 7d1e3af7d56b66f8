package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/competition"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listCompetitions(c echo.Context) error {
	return helpers.RespondQuery(c, s.competitionSvc.GetCompetitions(c.Request().Context()))
}

func (s *Server) listOwnCompetitions(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	return helpers.RespondQuery(c, s.competitionSvc.GetUserCompetitions(c.Request().Context(), userID))
}

func (s *Server) getCompetition(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	return helpers.RespondQuery(c, s.competitionSvc.GetCompetitionByID(c.Request().Context(), id))
}

func (s *Server) createCompetition(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req competition.CreateCompetitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return helpers.RespondMutation(c, http.StatusCreated, s.competitionSvc.CreateCompetition(c.Request().Context(), userID, &req))
}

func (s *Server) updateCompetition(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req competition.UpdateCompetitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return helpers.RespondMutation(c, http.StatusOK, s.competitionSvc.UpdateCompetition(c.Request().Context(), userID, id, &req))
}

// joinCompetition uses the invite key from the body, falling back to the caller's saved key.
// A successful join also selects the competition.
func (s *Server) joinCompetition(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req competition.JoinCompetitionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}
	ctx := c.Request().Context()
	key := req.InviteKey
	if key == "" && s.preferenceSvc != nil {
		saved, err := s.preferenceSvc.InviteKey(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to load saved invite key")
		}
		key = saved
	}

	res := s.competitionSvc.JoinCompetition(ctx, userID, id, key)
	if res.Success && s.preferenceSvc != nil {
		if err := s.preferenceSvc.SelectCompetition(ctx, userID, id); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("failed to select joined competition")
		}
	}
	return helpers.RespondMutation(c, http.StatusOK, res)
}
