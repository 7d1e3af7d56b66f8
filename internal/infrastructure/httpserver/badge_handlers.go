package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listBadges(c echo.Context) error {
	return helpers.RespondQuery(c, s.badgeService.GetBadges(c.Request().Context()))
}

func (s *Server) getOwnBadges(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.badgeService.GetUserBadges(c.Request().Context(), cid, userID))
}

func (s *Server) evaluateBadges(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondMutation(c, http.StatusOK, s.badgeService.EvaluateBadges(c.Request().Context(), cid, userID))
}

// awardBadge awards a badge to the caller once their competition total has reached it.
func (s *Server) awardBadge(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	badgeID, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondMutation(c, http.StatusOK, s.badgeService.AwardBadge(c.Request().Context(), cid, userID, badgeID))
}
