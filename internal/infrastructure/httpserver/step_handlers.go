package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/domain/badge"
	"github.com/avatarctic/step-challenge/internal/core/domain/result"
	"github.com/avatarctic/step-challenge/internal/core/domain/step"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

type addStepsResponse struct {
	Record    step.StepsRecord `json:"record"`
	NewBadges []badge.Badge    `json:"newBadges"`
}

func (s *Server) getUserSteps(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.stepService.GetUserSteps(c.Request().Context(), cid, userID))
}

func (s *Server) getUserTotalSteps(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.stepService.GetUserTotalSteps(c.Request().Context(), cid, userID))
}

func (s *Server) getStepsOnDate(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.stepService.GetStepsOnDate(c.Request().Context(), cid, userID, c.Param("date")))
}

func (s *Server) getTopUsers(c echo.Context) error {
	limit, err := helpers.ParseLimit(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.stepService.GetTopUsers(c.Request().Context(), cid, limit))
}

// addSteps records the caller's steps and then awards any badge the new total reaches.
// Badge evaluation failures do not fail the request.
func (s *Server) addSteps(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req step.AddStepsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	cid := helpers.GetCompetitionIDFromContext(c)

	added := s.stepService.AddSteps(ctx, cid, userID, &req)
	if !added.Success {
		return helpers.RespondMutation(c, http.StatusOK, added)
	}

	resp := addStepsResponse{Record: added.Data, NewBadges: []badge.Badge{}}
	if s.badgeService != nil {
		earned := s.badgeService.EvaluateBadges(ctx, cid, userID)
		if earned.Success {
			resp.NewBadges = earned.Data
		} else {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "competition_id": cid, "error": earned.Error}).Warn("badge evaluation failed")
		}
	}
	return helpers.RespondMutation(c, http.StatusCreated, result.Mutation[addStepsResponse]{Success: true, Data: resp})
}

func (s *Server) deleteSteps(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondMutation(c, http.StatusOK, s.stepService.DeleteSteps(c.Request().Context(), cid, userID, id))
}
