package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/goals"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getOwnGoal(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.goalsService.GetUserGoal(c.Request().Context(), cid, userID))
}

func (s *Server) setOwnGoal(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req goals.SetGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondMutation(c, http.StatusOK, s.goalsService.SetUserGoal(c.Request().Context(), cid, userID, &req))
}

// getOwnGoalProgress defaults the date to today in UTC.
func (s *Server) getOwnGoalProgress(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format(step.DateLayout)
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.goalsService.GetGoalProgress(c.Request().Context(), cid, userID, date))
}
